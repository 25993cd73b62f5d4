// Package report renders check results for people and for tools.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/typesize/check"
	"github.com/wippyai/typesize/errors"
	"github.com/wippyai/typesize/layout"
)

// Writer renders a set of results.
type Writer interface {
	Write(w io.Writer, results []check.Result) error
}

// New returns the writer for format ("text" or "json").
func New(format string, color, onlyFailures bool) (Writer, error) {
	switch format {
	case "text", "":
		return &Text{Color: color, OnlyFailures: onlyFailures}, nil
	case "json":
		return &JSON{OnlyFailures: onlyFailures}, nil
	default:
		return nil, errors.New(errors.PhaseReport, errors.KindInvalidInput).
			Value(format).
			Detail("unknown format %q", format).
			Build()
	}
}

// Dump writes an indented description of l, one line per record.
func Dump(l *layout.Layout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type `%s`: %d bytes, alignment: %d bytes (%s)\n",
		l.Name, l.Size, l.Align, layout.KindName(l.Kind))

	switch kind := l.Kind.(type) {
	case *layout.Struct:
		for _, e := range kind.Entries {
			writeEntry(&b, 1, e)
		}
	case *layout.Enum:
		if kind.DiscriminantSize > 0 {
			fmt.Fprintf(&b, "%sdiscriminant: %d bytes\n", indent(1), kind.DiscriminantSize)
		}
		for _, v := range kind.Variants {
			fmt.Fprintf(&b, "%svariant `%s`: %d bytes\n", indent(1), v.Name, v.Size)
			for _, e := range v.Entries {
				writeEntry(&b, 2, e)
			}
		}
	case *layout.Union:
		for _, f := range kind.Fields {
			writeEntry(&b, 1, f)
		}
	}
	return b.String()
}

// DescribeEntry returns the one-line form of an entry.
func DescribeEntry(e layout.Entry) string {
	switch e := e.(type) {
	case *layout.Field:
		return "field " + e.Name + ": " + bytesAttrs(e.Size, e.Offset, e.Align)
	case *layout.Upvar:
		return "upvar " + e.Name + ": " + bytesAttrs(e.Size, e.Offset, e.Align)
	case *layout.Local:
		s := "local " + e.Name + ": " + bytesAttrs(e.Size, e.Offset, e.Align)
		if e.TypeInfo != "" {
			s += ", type: " + e.TypeInfo
		}
		return s
	case *layout.Padding:
		return fmt.Sprintf("padding: %d bytes", e.Size)
	default:
		return fmt.Sprintf("%T", e)
	}
}

func writeEntry(b *strings.Builder, depth int, e layout.Entry) {
	b.WriteString(indent(depth))
	b.WriteString(DescribeEntry(e))
	b.WriteByte('\n')
}

func bytesAttrs(size uint64, offset, align *uint64) string {
	s := fmt.Sprintf("%d bytes", size)
	if offset != nil {
		s += fmt.Sprintf(", offset: %d bytes", *offset)
	}
	if align != nil {
		s += fmt.Sprintf(", alignment: %d bytes", *align)
	}
	return s
}

func indent(depth int) string {
	return strings.Repeat("    ", depth)
}

func unhandledReason(r check.Result) string {
	return errors.UnhandledLines(r.Layout.Name, r.Layout.Unhandled).Reason()
}

// defectReason returns "" when verification passed.
func defectReason(r check.Result) string {
	if d := r.Defect(); d != nil {
		return d.Reason()
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}

func visible(results []check.Result, onlyFailures bool) []check.Result {
	if !onlyFailures {
		return results
	}
	var out []check.Result
	for _, r := range results {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}
