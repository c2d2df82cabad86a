package bench

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/sarchlab/sortbench/stimulus"
	"github.com/sarchlab/sortbench/trace"
)

// MaxStreamExponent bounds TotalExponent - ParallelExponent.
const MaxStreamExponent = 24

// Config holds the parameters of a test run.
type Config struct {
	// TotalExponent is log2 of the number of elements the sorter handles.
	// Default: 6.
	TotalExponent uint `json:"total_exponent"`

	// ParallelExponent is log2 of the number of lanes written per cycle.
	// Default: 2.
	ParallelExponent uint `json:"parallel_exponent"`

	// PhaseRepeats is the number of stream batches each stimulus phase
	// writes. Default: 8.
	PhaseRepeats int `json:"phase_repeats"`

	// ResetDeltas are the time advances after each of the three reset steps.
	// Default: 1, 9, 10.
	ResetDeltas [3]uint64 `json:"reset_deltas"`

	// HighDelta is the time between the rising and the falling edge.
	// Default: 10.
	HighDelta uint64 `json:"high_delta"`

	// LowDelta is the time between the falling and the next rising edge.
	// Default: 10.
	LowDelta uint64 `json:"low_delta"`

	// OutputDir is created before the trace is opened. Default: "logs".
	OutputDir string `json:"output_dir"`

	// TraceFile is the VCD file name inside OutputDir. Default: "wave.vcd".
	TraceFile string `json:"trace_file"`

	// Timescale is the VCD unit of one time step. Default: "1ps".
	Timescale string `json:"timescale"`

	// Seed seeds the random phase. When unset, the wall clock is used.
	Seed *uint64 `json:"seed,omitempty"`
}

// DefaultConfig returns the configuration of the DLSorter test run.
func DefaultConfig() *Config {
	return &Config{
		TotalExponent:    6,
		ParallelExponent: 2,
		PhaseRepeats:     stimulus.DefaultRepeat,
		ResetDeltas:      [3]uint64{1, 9, 10},
		HighDelta:        10,
		LowDelta:         10,
		OutputDir:        "logs",
		TraceFile:        "wave.vcd",
		Timescale:        trace.DefaultTimescale,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate checks that the configuration describes a runnable sequence.
func (c *Config) Validate() error {
	if c.ParallelExponent > c.TotalExponent {
		return errors.New("parallel_exponent must be <= total_exponent")
	}
	if c.TotalExponent-c.ParallelExponent > MaxStreamExponent {
		return errors.Errorf("total_exponent - parallel_exponent must be <= %d",
			MaxStreamExponent)
	}
	if c.PhaseRepeats <= 0 {
		return errors.New("phase_repeats must be > 0")
	}
	for i, d := range c.ResetDeltas {
		if d == 0 {
			return errors.Errorf("reset_deltas[%d] must be > 0", i)
		}
	}
	if c.HighDelta == 0 {
		return errors.New("high_delta must be > 0")
	}
	if c.LowDelta == 0 {
		return errors.New("low_delta must be > 0")
	}
	if c.TraceFile == "" {
		return errors.New("trace_file must not be empty")
	}
	if c.Timescale == "" {
		return errors.New("timescale must not be empty")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Seed != nil {
		seed := *c.Seed
		clone.Seed = &seed
	}
	return &clone
}

// StreamCount returns 2^(TotalExponent - ParallelExponent), the number of
// cycles needed to write one full stream into the sorter.
func (c *Config) StreamCount() int {
	return 1 << (c.TotalExponent - c.ParallelExponent)
}

// TracePath returns the path of the VCD file.
func (c *Config) TracePath() string {
	return filepath.Join(c.OutputDir, c.TraceFile)
}

// WithSeed returns a copy of the Config with a fixed seed.
func (c *Config) WithSeed(seed uint64) *Config {
	clone := c.Clone()
	clone.Seed = &seed
	return clone
}

// ResolveSeed returns the configured seed, or one derived from now when no
// seed is configured.
func (c *Config) ResolveSeed(now time.Time) uint64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return uint64(now.UnixNano())
}
