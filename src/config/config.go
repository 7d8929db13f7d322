package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"torlife/src/engine"
)

var ErrInvalid = errors.New("invalid configuration")

//Duration is time.Duration read from JSON either as the "150ms" string or as nanoseconds
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "[Duration] bad value %q", value)
		}
		*d = Duration(parsed)
	default:
		return errors.Errorf("[Duration] unsupported value %v", v)
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds the configuration of the simulation
type Config struct {
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	Interval         Duration `json:"interval"`
	MaxSteps         int      `json:"max_steps"`
	MaxSkippedTicks  int      `json:"max_skipped_ticks"`
	StagnationWindow int      `json:"stagnation_window"`
	Seed             int64    `json:"seed"`
	Random           bool     `json:"random"`
	Noise            bool     `json:"noise"`
	NoiseScale       float64  `json:"noise_scale"`
	Pattern          []string `json:"pattern"`
}

// DefaultConfig returns the defaults of the engine
func DefaultConfig() Config {
	o := engine.DefaultOptions
	return Config{
		Width:            o.Width,
		Height:           o.Height,
		Interval:         Duration(o.Interval),
		MaxSteps:         o.MaxSteps,
		MaxSkippedTicks:  o.MaxSkippedTicks,
		StagnationWindow: o.StagnationWindow,
		Seed:             42,
		NoiseScale:       8,
	}
}

// LoadConfig loads configuration from JSON file, missing keys keep the defaults
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, errors.Wrapf(config.Validate(), "[LoadConfig] file: %+v", filename)
}

// Validate checks the values the engine can't work with
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return errors.Wrapf(ErrInvalid, "field size %dx%d", c.Width, c.Height)
	case c.Interval < 0:
		return errors.Wrapf(ErrInvalid, "negative interval %v", time.Duration(c.Interval))
	case c.MaxSteps < 0:
		return errors.Wrapf(ErrInvalid, "negative max steps %d", c.MaxSteps)
	case c.MaxSkippedTicks < 0:
		return errors.Wrapf(ErrInvalid, "negative max skipped ticks %d", c.MaxSkippedTicks)
	case c.StagnationWindow < 0:
		return errors.Wrapf(ErrInvalid, "negative stagnation window %d", c.StagnationWindow)
	case c.Random && c.Noise:
		return errors.Wrap(ErrInvalid, "random and noise settling are exclusive")
	}
	return nil
}

// Options converts the configuration to the engine options
func (c Config) Options() *engine.Options {
	return &engine.Options{
		Width:            c.Width,
		Height:           c.Height,
		Interval:         time.Duration(c.Interval),
		MaxSteps:         c.MaxSteps,
		MaxSkippedTicks:  c.MaxSkippedTicks,
		StagnationWindow: c.StagnationWindow,
		Seed:             c.Seed,
	}
}

// Merge returns base with every field of override that differs from the defaults
// so command line flags win over the config file only when they are given
func Merge(base Config, override Config) Config {
	d := DefaultConfig()
	if override.Width != d.Width {
		base.Width = override.Width
	}
	if override.Height != d.Height {
		base.Height = override.Height
	}
	if override.Interval != d.Interval {
		base.Interval = override.Interval
	}
	if override.MaxSteps != d.MaxSteps {
		base.MaxSteps = override.MaxSteps
	}
	if override.MaxSkippedTicks != d.MaxSkippedTicks {
		base.MaxSkippedTicks = override.MaxSkippedTicks
	}
	if override.StagnationWindow != d.StagnationWindow {
		base.StagnationWindow = override.StagnationWindow
	}
	if override.Seed != d.Seed {
		base.Seed = override.Seed
	}
	if override.NoiseScale != d.NoiseScale {
		base.NoiseScale = override.NoiseScale
	}
	base.Random = base.Random || override.Random
	base.Noise = base.Noise || override.Noise
	if len(override.Pattern) > 0 {
		base.Pattern = override.Pattern
	}
	return base
}
