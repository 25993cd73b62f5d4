package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/typesize/check"
	"github.com/wippyai/typesize/layout"
	"github.com/wippyai/typesize/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseState int

const (
	stateList browseState = iota
	stateFilter
	stateDetail
)

// chrome is the number of lines around the list: title, filter, blank, help.
const chrome = 5

type browseModel struct {
	ctx          context.Context
	err          error
	filter       textinput.Model
	detail       viewport.Model
	path         string
	results      []check.Result
	visible      []int
	opts         check.Options
	cursor       int
	width        int
	height       int
	state        browseState
	loaded       bool
	failuresOnly bool
}

type loadedMsg struct {
	err     error
	results []check.Result
}

func newBrowseModel(ctx context.Context, path string, opts check.Options) *browseModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by name"
	ti.Width = 40

	return &browseModel{
		ctx:    ctx,
		path:   path,
		opts:   opts,
		filter: ti,
		detail: viewport.New(80, 20),
		height: 24,
		width:  80,
		state:  stateList,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load
}

func (m *browseModel) load() tea.Msg {
	results, err := check.File(m.ctx, m.path, m.opts)
	return loadedMsg{results: results, err: err}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.results = msg.results
		m.refilter()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = msg.Width
		m.detail.Height = max(1, msg.Height-chrome)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateFilter:
			return m.updateFilter(msg)
		case stateDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m *browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case "/":
		m.state = stateFilter
		return m, m.filter.Focus()

	case "f":
		m.failuresOnly = !m.failuresOnly
		m.refilter()

	case "enter":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.detail.SetContent(detailText(r))
		m.detail.GotoTop()
		m.state = stateDetail
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter.Blur()
		m.state = stateList
		return m, nil

	case "esc":
		m.filter.Blur()
		m.filter.SetValue("")
		m.refilter()
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// refilter recomputes the visible rows and keeps the cursor in range.
func (m *browseModel) refilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, r := range m.results {
		if m.failuresOnly && !r.Failed() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Layout.Name), needle) {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
}

func (m *browseModel) selected() (check.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return check.Result{}, false
	}
	return m.results[m.visible[m.cursor]], true
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if !m.loaded {
		return "Checking " + m.path + "..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("typesize"))
	b.WriteString(" ")
	b.WriteString(m.path)
	b.WriteString(" ")
	b.WriteString(m.summaryLine())
	b.WriteString("\n")

	switch m.state {
	case stateDetail:
		b.WriteString("\n")
		b.WriteString(m.detail.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))

	default:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
		}
		b.WriteString("\n\n")
		m.writeRows(&b)
		b.WriteString("\n")
		help := "↑/↓ select • enter details • / filter • f failures only • q quit"
		if m.state == stateFilter {
			help = "enter apply • esc clear"
		}
		b.WriteString(helpStyle.Render(help))
	}

	return b.String()
}

func (m *browseModel) writeRows(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("  no layouts match"))
		b.WriteString("\n")
		return
	}

	rows := max(1, m.height-chrome)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(m.visible), start+rows)

	for i := start; i < end; i++ {
		r := m.results[m.visible[i]]
		row := formatRow(r)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
}

func (m *browseModel) summaryLine() string {
	s := check.Summarize(m.results)
	line := fmt.Sprintf("%d layouts, %d failed", s.Total, s.Failed)
	if m.failuresOnly {
		line += " (showing failures)"
	}
	if s.OK() {
		return passStyle.Render(line)
	}
	return errorStyle.Render(line)
}

func formatRow(r check.Result) string {
	mark := passStyle.Render("✓")
	if r.Failed() {
		mark = errorStyle.Render("✗")
	}
	return fmt.Sprintf("%s %4d %s %s %s",
		mark,
		r.Index,
		nameStyle.Render(r.Layout.Name),
		kindStyle.Render(layout.KindName(r.Layout.Kind)),
		fmt.Sprintf("%d bytes", r.Layout.Size))
}

func detailText(r check.Result) string {
	var b strings.Builder
	if r.Unhandled() {
		b.WriteString(errorStyle.Render("unhandled lines:"))
		b.WriteString("\n")
		for _, l := range r.Layout.Unhandled {
			b.WriteString("  " + l + "\n")
		}
		b.WriteString("\n")
	}
	if d := r.Defect(); d != nil {
		b.WriteString(errorStyle.Render(d.Reason()))
		b.WriteString("\n\n")
	} else if r.Err != nil {
		b.WriteString(errorStyle.Render(r.Err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(report.Dump(r.Layout))
	return b.String()
}

func runInteractive(ctx context.Context, path string, opts check.Options) error {
	p := tea.NewProgram(newBrowseModel(ctx, path, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
