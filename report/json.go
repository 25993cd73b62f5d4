package report

import (
	"encoding/json"
	"io"

	"github.com/wippyai/typesize/check"
	"github.com/wippyai/typesize/errors"
	"github.com/wippyai/typesize/layout"
)

// JSON writes a single machine-readable document.
type JSON struct {
	OnlyFailures bool
}

type jsonReport struct {
	Layouts []jsonLayout `json:"layouts"`
	Summary jsonSummary  `json:"summary"`
}

type jsonLayout struct {
	DiscriminantSize *uint64       `json:"discriminant_size,omitempty"`
	Defect           *jsonDefect   `json:"error,omitempty"`
	Name             string        `json:"name"`
	Kind             string        `json:"kind"`
	Entries          []jsonEntry   `json:"entries,omitempty"`
	Variants         []jsonVariant `json:"variants,omitempty"`
	Unhandled        []string      `json:"unhandled,omitempty"`
	Index            int           `json:"index"`
	Size             uint64        `json:"size"`
	Align            uint64        `json:"alignment"`
	Failed           bool          `json:"failed"`
}

type jsonVariant struct {
	Name    string      `json:"name"`
	Entries []jsonEntry `json:"entries"`
	Size    uint64      `json:"size"`
}

type jsonEntry struct {
	Offset *uint64 `json:"offset,omitempty"`
	Align  *uint64 `json:"alignment,omitempty"`
	Kind   string  `json:"kind"`
	Name   string  `json:"name,omitempty"`
	Type   string  `json:"type,omitempty"`
	Size   uint64  `json:"size"`
}

type jsonDefect struct {
	Kind     errors.Kind `json:"kind"`
	Variant  string      `json:"variant,omitempty"`
	Reason   string      `json:"reason"`
	Expected uint64      `json:"expected"`
	Actual   uint64      `json:"actual"`
}

type jsonSummary struct {
	ByKind    map[errors.Kind]int `json:"by_kind"`
	Total     int                 `json:"total"`
	Passed    int                 `json:"passed"`
	Failed    int                 `json:"failed"`
	Unhandled int                 `json:"unhandled"`
}

// Write implements Writer.
func (j *JSON) Write(w io.Writer, results []check.Result) error {
	doc := jsonReport{Layouts: []jsonLayout{}}
	for _, r := range visible(results, j.OnlyFailures) {
		doc.Layouts = append(doc.Layouts, toJSONLayout(r))
	}

	s := check.Summarize(results)
	doc.Summary = jsonSummary{
		ByKind:    s.ByKind,
		Total:     s.Total,
		Passed:    s.Passed,
		Failed:    s.Failed,
		Unhandled: s.Unhandled,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

func toJSONLayout(r check.Result) jsonLayout {
	l := r.Layout
	out := jsonLayout{
		Index:     r.Index,
		Name:      l.Name,
		Kind:      layout.KindName(l.Kind),
		Size:      l.Size,
		Align:     l.Align,
		Unhandled: l.Unhandled,
		Failed:    r.Failed(),
	}

	switch kind := l.Kind.(type) {
	case *layout.Struct:
		out.Entries = toJSONEntries(kind.Entries)
	case *layout.Enum:
		disc := kind.DiscriminantSize
		out.DiscriminantSize = &disc
		for _, v := range kind.Variants {
			out.Variants = append(out.Variants, jsonVariant{
				Name:    v.Name,
				Size:    v.Size,
				Entries: toJSONEntries(v.Entries),
			})
		}
	case *layout.Union:
		for _, f := range kind.Fields {
			out.Entries = append(out.Entries, toJSONEntry(f))
		}
	}

	if d := r.Defect(); d != nil {
		out.Defect = &jsonDefect{
			Kind:     d.Kind,
			Variant:  d.Variant(),
			Reason:   d.Reason(),
			Expected: d.Expected,
			Actual:   d.Actual,
		}
	}
	return out
}

func toJSONEntries(entries []layout.Entry) []jsonEntry {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toJSONEntry(e))
	}
	return out
}

func toJSONEntry(e layout.Entry) jsonEntry {
	switch e := e.(type) {
	case *layout.Field:
		return jsonEntry{Kind: "field", Name: e.Name, Size: e.Size, Offset: e.Offset, Align: e.Align}
	case *layout.Upvar:
		return jsonEntry{Kind: "upvar", Name: e.Name, Size: e.Size, Offset: e.Offset, Align: e.Align}
	case *layout.Local:
		return jsonEntry{Kind: "local", Name: e.Name, Size: e.Size, Offset: e.Offset, Align: e.Align, Type: e.TypeInfo}
	case *layout.Padding:
		return jsonEntry{Kind: "padding", Size: e.Size}
	default:
		return jsonEntry{Kind: "unknown", Size: layout.SizeOf(e)}
	}
}
