package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/typesize/check"
	"github.com/wippyai/typesize/config"
	"github.com/wippyai/typesize/parser"
	"github.com/wippyai/typesize/report"
)

// errFailed signals that the report was written and some layout failed.
var errFailed = stderrors.New("layout check failed")

type options struct {
	configPath   string
	format       string
	color        string
	skip         []string
	workers      int
	onlyFailures bool
	lenient      bool
	verbose      bool
	watch        bool
	interactive  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !stderrors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "typesize [flags] <type-sizes-file|->",
		Short: "Verify the type layouts in a print-type-size report",
		Long: `Reads the output of rustc -Zprint-type-sizes, rebuilds every reported
struct, enum, union and closure layout, and checks that each declared size
agrees with the sizes of its parts.

Example:
  cargo +nightly rustc -- -Zprint-type-sizes > type-sizes.txt
  typesize type-sizes.txt
  typesize --format json --only-failures type-sizes.txt
  typesize -i type-sizes.txt`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Usage()
				return fmt.Errorf("expected one report path, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], &o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "config file (default: .typesize.yaml in the working directory)")
	f.StringVar(&o.format, "format", config.FormatText, "output format: text or json")
	f.StringVar(&o.color, "color", config.ColorAuto, "colorize output: auto, always or never")
	f.StringArrayVar(&o.skip, "skip", nil, "skip layouts whose name matches the glob (repeatable)")
	f.IntVar(&o.workers, "workers", 0, "parallel verifiers (0 = GOMAXPROCS)")
	f.BoolVar(&o.onlyFailures, "only-failures", false, "print failing layouts only")
	f.BoolVar(&o.lenient, "allow-unhandled", false, "do not fail layouts for unrecognized lines")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging to stderr")
	f.BoolVarP(&o.watch, "watch", "w", false, "re-run whenever the report file changes")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "browse layouts in a terminal UI")

	return cmd
}

func run(cmd *cobra.Command, path string, o *options) error {
	ctx := cmd.Context()

	cfg, err := o.settings(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(o.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	parser.SetLogger(logger.Named("parser"))
	check.SetLogger(logger.Named("check"))

	opts := cfg.CheckOptions()

	if o.interactive {
		return runInteractive(ctx, path, opts)
	}

	out := cmd.OutOrStdout()
	w, err := report.New(cfg.Format, useColor(cfg.Color, out), cfg.OnlyFailures)
	if err != nil {
		return err
	}

	if o.watch {
		return runWatch(ctx, logger, path, opts, w, out)
	}
	return checkOnce(ctx, path, opts, w, out)
}

// settings merges the config file with the flags the user set.
func (o *options) settings(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, _, err = config.Discover(wd)
		}
	}
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("format") {
		cfg.Format = o.format
	}
	if f.Changed("color") {
		cfg.Color = o.color
	}
	if f.Changed("skip") {
		cfg.Skip = append(cfg.Skip, o.skip...)
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	if f.Changed("only-failures") {
		cfg.OnlyFailures = o.onlyFailures
	}
	if f.Changed("allow-unhandled") {
		strict := !o.lenient
		cfg.FailOnUnhandled = &strict
	}

	return cfg, cfg.Validate()
}

func checkOnce(ctx context.Context, path string, opts check.Options, w report.Writer, out io.Writer) error {
	results, err := check.File(ctx, path, opts)
	if err != nil {
		return err
	}
	if err := w.Write(out, results); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if !check.Summarize(results).OK() {
		return errFailed
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// useColor resolves the color mode; auto colors terminals unless NO_COLOR
// is set.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
