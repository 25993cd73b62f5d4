package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/wippyai/typesize/check"
)

// Text writes the human report: a framed block per layout, its defects,
// then the layout tree. Failing layouts are painted in the error style when
// Color is set.
type Text struct {
	Color        bool
	OnlyFailures bool
}

type textStyles struct {
	title  lipgloss.Style
	reason lipgloss.Style
	failed lipgloss.Style
	ok     lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return textStyles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
		reason: r.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")),
		failed: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")),
		ok: r.NewStyle().
			Foreground(lipgloss.Color("#90EE90")),
	}
}

// Write implements Writer.
func (t *Text) Write(w io.Writer, results []check.Result) error {
	var st textStyles
	if t.Color {
		st = newTextStyles(w)
	}
	paint := func(s lipgloss.Style, text string) string {
		if !t.Color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	for _, r := range visible(results, t.OnlyFailures) {
		b.WriteString(paint(st.title, fmt.Sprintf("//---------- Layout %d ----------//", r.Index)))
		b.WriteByte('\n')

		if r.Unhandled() {
			b.WriteString(paint(st.reason, "  - error reason: "+unhandledReason(r)))
			b.WriteByte('\n')
			for _, line := range r.Layout.Unhandled {
				b.WriteString("      ")
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
		if reason := defectReason(r); reason != "" {
			b.WriteString(paint(st.reason, "  - error reason: "+reason))
			b.WriteByte('\n')
		}

		dump := strings.TrimRight(Dump(r.Layout), "\n")
		if r.Failed() {
			dump = paint(st.failed, dump)
		}
		b.WriteString(dump)
		b.WriteString("\n\n")
	}

	s := check.Summarize(results)
	line := fmt.Sprintf("checked %s layouts: %s passed, %s failed",
		humanize.Comma(int64(s.Total)),
		humanize.Comma(int64(s.Passed)),
		humanize.Comma(int64(s.Failed)))
	if s.Unhandled > 0 {
		line += fmt.Sprintf(" (%s with unhandled lines)", humanize.Comma(int64(s.Unhandled)))
	}
	line += fmt.Sprintf(", %s declared", humanize.IBytes(declaredBytes(results)))
	if s.OK() {
		line = paint(st.ok, line)
	} else {
		line = paint(st.failed, line)
	}
	b.WriteString(line)
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func declaredBytes(results []check.Result) uint64 {
	var total uint64
	for _, r := range results {
		total += r.Layout.Size
	}
	return total
}
