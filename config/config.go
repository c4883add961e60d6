// Package config loads the grid settings from YAML. Keys left out of a
// file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hnimtadd/gridvirt/grid/core"
	"github.com/hnimtadd/gridvirt/grid/estimator"
	"github.com/hnimtadd/gridvirt/grid/virt"
	"github.com/hnimtadd/gridvirt/logger"
)

var ErrInvalid = fmt.Errorf("config: invalid configuration")

type (
	Config struct {
		Estimator Estimator `yaml:"estimator"`
		Scroll    Scroll    `yaml:"scroll"`
		Pools     Pools     `yaml:"pools"`
		Modes     Modes     `yaml:"modes"`
		Logging   Logging   `yaml:"logging"`
	}

	Estimator struct {
		RowHeightHint     float64    `yaml:"row_height_hint"`
		HeaderHeightHint  float64    `yaml:"header_height_hint"`
		FooterHeightHint  float64    `yaml:"footer_height_hint"`
		DetailsHeightHint float64    `yaml:"details_height_hint"`
		Confidence        Confidence `yaml:"confidence"`
	}

	Confidence struct {
		MaxRelativeError  float64 `yaml:"max_relative_error"`
		MaxRelativeSpread float64 `yaml:"max_relative_spread"`
		MinSamples        int     `yaml:"min_samples"`
		Window            int     `yaml:"window"`
	}

	Scroll struct {
		// Deltas larger than this many viewports may jump through the
		// estimator. Negative disables jumps.
		LargeJumpFactor float64 `yaml:"large_jump_factor"`
	}

	// Pool bounds per element kind; zero is unbounded.
	Pools struct {
		MaxRecyclable    int `yaml:"max_recyclable"`
		MaxFullyRecycled int `yaml:"max_fully_recycled"`
	}

	Modes struct {
		RowDetailsVisible bool `yaml:"row_details_visible"`
		ShowGroupFooters  bool `yaml:"show_group_footers"`
		CanUserAddRows    bool `yaml:"can_user_add_rows"`
		ReadOnly          bool `yaml:"read_only"`
	}

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	}
)

func Default() Config {
	est := estimator.DefaultOptions()
	return Config{
		Estimator: Estimator{
			RowHeightHint:     est.RowHeightHint,
			HeaderHeightHint:  est.HeaderHeightHint,
			FooterHeightHint:  est.FooterHeightHint,
			DetailsHeightHint: est.DetailsHeightHint,
			Confidence: Confidence{
				MaxRelativeError:  est.MaxRelativeError,
				MaxRelativeSpread: est.MaxRelativeSpread,
				MinSamples:        est.MinSamples,
				Window:            est.Window,
			},
		},
		Scroll:  Scroll{LargeJumpFactor: virt.DefaultLargeJumpFactor},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	e := c.Estimator
	check(e.RowHeightHint > 0, "estimator.row_height_hint must be positive, got %v", e.RowHeightHint)
	check(e.HeaderHeightHint >= 0, "estimator.header_height_hint is negative")
	check(e.FooterHeightHint >= 0, "estimator.footer_height_hint is negative")
	check(e.DetailsHeightHint >= 0, "estimator.details_height_hint is negative")
	check(e.Confidence.MaxRelativeError > 0, "estimator.confidence.max_relative_error must be positive")
	check(e.Confidence.MaxRelativeSpread > 0, "estimator.confidence.max_relative_spread must be positive")
	check(e.Confidence.MinSamples > 0, "estimator.confidence.min_samples must be positive")
	check(e.Confidence.Window >= e.Confidence.MinSamples,
		"estimator.confidence.window %d is smaller than min_samples %d", e.Confidence.Window, e.Confidence.MinSamples)
	check(c.Scroll.LargeJumpFactor != 0, "scroll.large_jump_factor is zero")
	check(c.Pools.MaxRecyclable >= 0 && c.Pools.MaxFullyRecycled >= 0, "pool bounds are negative")
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if _, err := logger.ParseType(c.Logging.Format); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// ControllerOptions maps the configuration to controller options. The
// collaborators (measurer, columns, metrics, logger) are left to the
// caller.
func (c Config) ControllerOptions() virt.Options {
	return virt.Options{
		Estimator: estimator.Options{
			RowHeightHint:     c.Estimator.RowHeightHint,
			HeaderHeightHint:  c.Estimator.HeaderHeightHint,
			FooterHeightHint:  c.Estimator.FooterHeightHint,
			DetailsHeightHint: c.Estimator.DetailsHeightHint,
			MaxRelativeError:  c.Estimator.Confidence.MaxRelativeError,
			MaxRelativeSpread: c.Estimator.Confidence.MaxRelativeSpread,
			MinSamples:        c.Estimator.Confidence.MinSamples,
			Window:            c.Estimator.Confidence.Window,
		},
		LargeJumpFactor:  c.Scroll.LargeJumpFactor,
		MaxRecyclable:    c.Pools.MaxRecyclable,
		MaxFullyRecycled: c.Pools.MaxFullyRecycled,
		Modes:            c.Modes.packed(),
	}
}

func (m Modes) packed() map[core.Mode]bool {
	return map[core.Mode]bool{
		core.ModeRowDetailsVisible: m.RowDetailsVisible,
		core.ModeShowGroupFooters:  m.ShowGroupFooters,
		core.ModeCanUserAddRows:    m.CanUserAddRows,
		core.ModeReadOnly:          m.ReadOnly,
	}
}

// LoggerOptions builds logger options writing to w.
func (c Config) LoggerOptions(w io.Writer) (logger.Options, error) {
	level, err := logger.ParseLevel(c.Logging.Level)
	if err != nil {
		return logger.Options{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	typ, err := logger.ParseType(c.Logging.Format)
	if err != nil {
		return logger.Options{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return logger.Options{Buffer: w, Level: level, Type: typ}, nil
}
