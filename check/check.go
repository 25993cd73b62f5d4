package check

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/typesize/errors"
	"github.com/wippyai/typesize/layout"
	"github.com/wippyai/typesize/parser"
)

// Options control a check run.
type Options struct {
	// Skip holds path.Match patterns; matching layout names are not checked.
	Skip []string
	// Workers bounds parallel verification. Zero means GOMAXPROCS.
	Workers int
	// FailOnUnhandled marks layouts with unhandled lines as failed.
	FailOnUnhandled bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{FailOnUnhandled: true}
}

// Result pairs a layout with its verification outcome.
type Result struct {
	Layout *layout.Layout
	// Err is nil or the *errors.Error returned by Verify.
	Err error
	// Index is the 1-based position of the layout in the report.
	Index int
	// strictUnhandled is copied from Options.FailOnUnhandled.
	strictUnhandled bool
}

// Unhandled reports whether the layout recorded unrecognized lines.
func (r Result) Unhandled() bool {
	return len(r.Layout.Unhandled) > 0
}

// Failed reports whether the layout has a defect.
func (r Result) Failed() bool {
	return r.Err != nil || (r.strictUnhandled && r.Unhandled())
}

// Defect returns Err as *errors.Error, or nil.
func (r Result) Defect() *errors.Error {
	var e *errors.Error
	if stderrors.As(r.Err, &e) {
		return e
	}
	return nil
}

// Run verifies layouts in parallel and returns results in input order.
// Skipped layouts are absent from the results but keep their index gap.
func Run(ctx context.Context, layouts []*layout.Layout, opts Options) ([]Result, error) {
	for _, p := range opts.Skip {
		if _, err := path.Match(p, ""); err != nil {
			return nil, errors.InvalidConfig("skip", p, err.Error())
		}
	}

	results := make([]Result, len(layouts))
	keep := make([]bool, len(layouts))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, l := range layouts {
		if skipped(l.Name, opts.Skip) {
			Logger().Debug("layout skipped", zap.String("layout", l.Name))
			continue
		}
		keep[i] = true
		i, l := i, l
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := l.Verify()
			if err != nil {
				Logger().Debug("verification failed",
					zap.String("layout", l.Name),
					zap.Error(err))
			}
			results[i] = Result{
				Index:           i + 1,
				Layout:          l,
				Err:             err,
				strictUnhandled: opts.FailOnUnhandled,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for i, r := range results {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Reader parses a report from r and checks it.
func Reader(ctx context.Context, r io.Reader, opts Options) ([]Result, error) {
	layouts, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}
	return Run(ctx, layouts, opts)
}

// File checks the report at name; "-" reads standard input.
func File(ctx context.Context, name string, opts Options) ([]Result, error) {
	if name == "-" {
		return Reader(ctx, os.Stdin, opts)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, errors.IO(errors.PhaseLoad, fmt.Sprintf("open %s", name), err)
	}
	defer f.Close()

	return Reader(ctx, f, opts)
}

func skipped(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}
