// Package config loads the YAML run description of the pulsealign command.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pulse/dsp/window"
	"github.com/cwbudde/algo-pulse/pulse"
	"github.com/cwbudde/algo-pulse/pulse/load"
)

// Defaults applied to fields left out of the file.
const (
	DefaultThreshold    = pulse.DefaultThreshold
	DefaultWindow       = "hanning"
	DefaultWindowLength = 11
	DefaultDownsample   = 1
	DefaultFormat       = string(load.FormatASCII)
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config describes one alignment run.
type Config struct {
	// Shots are the files to load, one shot each.
	Shots  []string `yaml:"shots"`
	Format string   `yaml:"format"`

	// Channels are loaded from every shot, segmented and aligned. The
	// field channel is required.
	Channels []Channel `yaml:"channels"`

	// Threshold is nil when unset so that 0 stays a valid cut value.
	Threshold  *float64       `yaml:"threshold"`
	Downsample int            `yaml:"downsample"`
	Window     WindowConfig   `yaml:"window"`
	Gaussian   GaussianConfig `yaml:"gaussian"`

	// Smoothed lists the channels the smoothing stages apply to. Empty
	// means all channels.
	Smoothed []string `yaml:"smoothed"`

	// Output is the directory aligned branches are written to. Empty
	// disables writing.
	Output string    `yaml:"output"`
	Log    LogConfig `yaml:"log"`
}

// Channel is one loaded quantity. Column is only read for ASCII files;
// WAV channels are taken in order. A missing gain reads as 1.
type Channel struct {
	Name   string  `yaml:"name"`
	Gain   float64 `yaml:"gain"`
	Column int     `yaml:"column"`
}

type WindowConfig struct {
	Kind string `yaml:"kind"`
	// Length is nil when unset; 0 disables window smoothing.
	Length *int `yaml:"length"`
}

type GaussianConfig struct {
	Width int     `yaml:"width"`
	Sigma float64 `yaml:"sigma"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads, completes and validates the file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes a YAML document, fills in defaults and validates it.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration of an empty file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Threshold == nil {
		t := DefaultThreshold
		c.Threshold = &t
	}
	if c.Downsample == 0 {
		c.Downsample = DefaultDownsample
	}
	if c.Window.Kind == "" {
		c.Window.Kind = DefaultWindow
	}
	if c.Window.Length == nil {
		n := DefaultWindowLength
		c.Window.Length = &n
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	for i := range c.Channels {
		if c.Channels[i].Gain == 0 {
			c.Channels[i].Gain = 1
		}
	}
}

// Validate checks a configuration after overrides were applied.
func (c *Config) Validate() error {
	return c.validate()
}

func (c *Config) validate() error {
	if _, err := load.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: format: %w", err)
	}
	if _, err := window.ParseKind(c.Window.Kind); err != nil {
		return fmt.Errorf("config: window.kind: %w", err)
	}
	if *c.Window.Length < 0 {
		return fmt.Errorf("config: window.length must be >= 0, got %d", *c.Window.Length)
	}
	if c.Downsample < 1 {
		return fmt.Errorf("config: downsample must be >= 1, got %d", c.Downsample)
	}
	if c.Gaussian.Width < 0 {
		return fmt.Errorf("config: gaussian.width must be >= 0, got %d", c.Gaussian.Width)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}

	seen := make(map[string]bool, len(c.Channels))
	hasField := false
	for _, ch := range c.Channels {
		switch {
		case ch.Name == "":
			return errors.New("config: channel without a name")
		case seen[ch.Name]:
			return fmt.Errorf("config: channel %q listed twice", ch.Name)
		case ch.Column < 0:
			return fmt.Errorf("config: channel %q column must be >= 0, got %d", ch.Name, ch.Column)
		}
		seen[ch.Name] = true
		hasField = hasField || ch.Name == pulse.Field
	}
	if !hasField {
		return fmt.Errorf("config: the %q channel is required", pulse.Field)
	}
	for _, name := range c.Smoothed {
		if !seen[name] {
			return fmt.Errorf("config: smoothed channel %q is not loaded", name)
		}
	}
	return nil
}

// Params returns the loader parameters and columns of the channels.
func (c *Config) Params() ([]load.Param, []int) {
	params := make([]load.Param, len(c.Channels))
	cols := make([]int, len(c.Channels))
	for i, ch := range c.Channels {
		params[i] = load.Param{Name: ch.Name, Gain: ch.Gain}
		cols[i] = ch.Column
	}
	return params, cols
}

// Pipeline converts the configuration into pipeline parameters.
func (c *Config) Pipeline() (pulse.PipelineConfig, error) {
	kind, err := window.ParseKind(c.Window.Kind)
	if err != nil {
		return pulse.PipelineConfig{}, fmt.Errorf("config: window.kind: %w", err)
	}

	pc := pulse.DefaultPipelineConfig()
	pc.Channels = make([]string, len(c.Channels))
	for i, ch := range c.Channels {
		pc.Channels[i] = ch.Name
	}
	pc.Threshold = *c.Threshold
	pc.DownsampleFactor = c.Downsample
	pc.WindowLength = *c.Window.Length
	pc.Window = kind
	pc.GaussianWidth = c.Gaussian.Width
	pc.GaussianSigma = c.Gaussian.Sigma
	pc.Smoothed = c.Smoothed
	return pc, pc.Validate()
}
