package parser

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/typesize/errors"
	"github.com/wippyai/typesize/layout"
)

// Parse reads a type-size report to EOF and returns its layouts in input
// order. Lines have no length limit. A read error discards everything
// parsed so far.
func Parse(r io.Reader) ([]*layout.Layout, error) {
	br := bufio.NewReader(r)
	b := NewBuilder()
	lines := 0

	for {
		s, err := br.ReadString('\n')
		if len(s) > 0 {
			lines++
			b.Feed(strings.TrimRight(s, "\r\n"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.IO(errors.PhaseParse, "read report", err)
		}
	}

	layouts := b.Finish()
	Logger().Debug("report parsed",
		zap.Int("lines", lines),
		zap.Int("layouts", len(layouts)))
	return layouts, nil
}

// ParseLines runs lines through a Builder.
func ParseLines(lines []string) []*layout.Layout {
	b := NewBuilder()
	for _, l := range lines {
		b.Feed(l)
	}
	return b.Finish()
}
