// Package config holds the run configuration of the FIFO golden-vector
// generator.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/fwftsim/fifo"
	"github.com/sarchlab/fwftsim/stimulus"
)

// ErrInvalid is wrapped by every configuration validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the parameters of one golden-vector run.
type Config struct {
	// Capacity is the queue depth in words. Default: 16.
	Capacity int `json:"capacity" yaml:"capacity"`

	// WordWidthBits is the width of din and dout. Default: 8.
	WordWidthBits int `json:"word_width_bits" yaml:"word_width_bits"`

	// RunLength is the number of stimulus cycles. Default: 1024.
	RunLength int `json:"run_length" yaml:"run_length"`

	// ResetHoldCycles is the number of leading cycles with reset asserted.
	// Default: 4.
	ResetHoldCycles int `json:"reset_hold_cycles" yaml:"reset_hold_cycles"`

	// Seed selects the stimulus sequence. Default: 1.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Policy names the read-gating policy of the target design.
	// Default: "pre-write-empty".
	Policy string `json:"policy" yaml:"policy"`
}

// DefaultConfig returns a Config matching the standard 16-deep, 8-bit test
// bench.
func DefaultConfig() *Config {
	return &Config{
		Capacity:        16,
		WordWidthBits:   8,
		RunLength:       1024,
		ResetHoldCycles: 4,
		Seed:            1,
		Policy:          fifo.PolicyPreWriteEmpty.String(),
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig loads a Config from a JSON or YAML file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	return config, nil
}

// SaveConfig writes the Config to a file, as YAML when the extension asks for
// it and as indented JSON otherwise.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to serialize config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate reports configuration errors before any cycle is processed.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return errors.Wrapf(ErrInvalid, "capacity must be > 0, got %d", c.Capacity)
	}
	if c.WordWidthBits <= 0 || c.WordWidthBits > stimulus.MaxWordWidth {
		return errors.Wrapf(ErrInvalid, "word_width_bits must be in [1, %d], got %d",
			stimulus.MaxWordWidth, c.WordWidthBits)
	}
	if c.RunLength <= 0 {
		return errors.Wrapf(ErrInvalid, "run_length must be > 0, got %d", c.RunLength)
	}
	if c.ResetHoldCycles < 0 {
		return errors.Wrapf(ErrInvalid, "reset_hold_cycles must be >= 0, got %d",
			c.ResetHoldCycles)
	}
	if _, err := fifo.ParsePolicy(c.Policy); err != nil {
		return errors.Wrapf(ErrInvalid, "policy: %v", err)
	}
	return nil
}

// FifoPolicy returns the parsed read-gating policy. Unknown names fall back
// to the default; call Validate first to reject them.
func (c *Config) FifoPolicy() fifo.Policy {
	p, _ := fifo.ParsePolicy(c.Policy)
	return p
}

// StimulusConfig returns the stimulus part of the configuration.
func (c *Config) StimulusConfig() stimulus.Config {
	return stimulus.Config{
		WordWidthBits:   c.WordWidthBits,
		ResetHoldCycles: c.ResetHoldCycles,
		Length:          c.RunLength,
		Seed:            c.Seed,
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
