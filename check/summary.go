package check

import (
	"github.com/wippyai/typesize/errors"
)

// Summary counts the outcomes of a run.
type Summary struct {
	ByKind    map[errors.Kind]int
	Total     int
	Passed    int
	Failed    int
	Unhandled int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{ByKind: make(map[errors.Kind]int)}
	for _, r := range results {
		s.Total++
		if r.Unhandled() {
			s.Unhandled++
		}
		if d := r.Defect(); d != nil {
			s.ByKind[d.Kind]++
		}
		if r.Failed() {
			s.Failed++
		} else {
			s.Passed++
		}
	}
	return s
}

// OK reports whether no result failed.
func (s Summary) OK() bool {
	return s.Failed == 0
}
