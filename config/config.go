// Package config loads typesize settings from a YAML file.
//
// A config file is optional. When present it is read from the path given on
// the command line, or discovered as .typesize.yaml (then .typesize.yml) in
// the working directory. Command-line flags override file values.
//
//	format: text          # text | json
//	color: auto           # auto | always | never
//	only_failures: false
//	workers: 0            # 0 = GOMAXPROCS
//	fail_on_unhandled: true
//	skip:
//	  - "core::fmt::*"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/typesize/check"
	"github.com/wippyai/typesize/errors"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// FileNames are tried in order by Discover.
var FileNames = []string{".typesize.yaml", ".typesize.yml"}

// Config holds every setting the CLI reads.
type Config struct {
	FailOnUnhandled *bool    `yaml:"fail_on_unhandled"`
	Format          string   `yaml:"format"`
	Color           string   `yaml:"color"`
	Skip            []string `yaml:"skip"`
	Workers         int      `yaml:"workers"`
	OnlyFailures    bool     `yaml:"only_failures"`
}

// Default returns the built-in settings.
func Default() Config {
	strict := true
	return Config{
		Format:          FormatText,
		Color:           ColorAuto,
		FailOnUnhandled: &strict,
	}
}

// Load reads the YAML file at name over the defaults.
func Load(name string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(name)
	if err != nil {
		return cfg, errors.IO(errors.PhaseConfig, fmt.Sprintf("read %s", name), err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
			Detail("parse %s", name).
			Cause(err).
			Build()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Discover loads the first config file found in dir. found is false, with
// the defaults, when dir holds none.
func Discover(dir string) (cfg Config, found bool, err error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Default(), false, errors.IO(errors.PhaseConfig, fmt.Sprintf("stat %s", p), err)
		}
		loaded, err := Load(p)
		return loaded, true, err
	}
	return Default(), false, nil
}

// Validate checks enumerated values and skip patterns.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return errors.InvalidConfig("format", c.Format, "want text or json")
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.InvalidConfig("color", c.Color, "want auto, always or never")
	}

	if c.Workers < 0 {
		return errors.InvalidConfig("workers", c.Workers, "must not be negative")
	}

	for _, p := range c.Skip {
		if _, err := path.Match(p, ""); err != nil {
			return errors.InvalidConfig("skip", p, err.Error())
		}
	}
	return nil
}

// CheckOptions converts the settings that drive a check run.
func (c Config) CheckOptions() check.Options {
	opts := check.DefaultOptions()
	opts.Skip = c.Skip
	opts.Workers = c.Workers
	if c.FailOnUnhandled != nil {
		opts.FailOnUnhandled = *c.FailOnUnhandled
	}
	return opts
}
