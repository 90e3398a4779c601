package rrsched

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_NUM_PROCS = 5
	DEFAULT_QUANTUM   = 3
)

// Range is an inclusive [Min, Max] interval of ticks or priority levels.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// Config holds everything needed for one simulation run.
type Config struct {
	NumProcs int   `yaml:"numProcs"`
	Quantum  int   `yaml:"quantum"`
	Seed     int64 `yaml:"seed"` // 0 picks a time based seed
	Verbose  bool  `yaml:"verbose"`
	Arrival  Range `yaml:"arrival"`
	Burst    Range `yaml:"burst"`
	Priority Range `yaml:"priority"`
	// Sweep lists extra quanta to compare against the same batch.
	Sweep []int `yaml:"sweep"`
}

// DefaultConfig matches the reference lab program: 5 procs, quantum 3,
// arrivals in [0, 10], bursts in [1, 10], priorities in [1, 5].
func DefaultConfig() *Config {
	return &Config{
		NumProcs: DEFAULT_NUM_PROCS,
		Quantum:  DEFAULT_QUANTUM,
		Arrival:  Range{0, 10},
		Burst:    Range{1, 10},
		Priority: Range{1, 5},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all config values are usable.
func (c *Config) Validate() error {
	if c.NumProcs < 0 {
		return fmt.Errorf("%w: numProcs must be >= 0, got %d", ErrInvalidConfig, c.NumProcs)
	}
	if c.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be > 0, got %d", ErrInvalidConfig, c.Quantum)
	}
	for _, q := range c.Sweep {
		if q <= 0 {
			return fmt.Errorf("%w: sweep quantum must be > 0, got %d", ErrInvalidConfig, q)
		}
	}
	if err := c.Arrival.check("arrival", 0); err != nil {
		return err
	}
	if err := c.Burst.check("burst", 1); err != nil {
		return err
	}
	if c.Priority.Max < c.Priority.Min {
		return fmt.Errorf("%w: priority range %v is inverted", ErrInvalidConfig, c.Priority)
	}
	return nil
}

func (r Range) check(name string, floor int) error {
	if r.Min < floor {
		return fmt.Errorf("%w: %s min must be >= %d, got %d", ErrInvalidConfig, name, floor, r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%w: %s range %v is inverted", ErrInvalidConfig, name, r)
	}
	return nil
}

// Quanta returns the main quantum followed by the sweep quanta, without duplicates.
func (c *Config) Quanta() []Ttick {
	seen := map[int]bool{c.Quantum: true}
	qs := []Ttick{Ttick(c.Quantum)}
	for _, q := range c.Sweep {
		if !seen[q] {
			seen[q] = true
			qs = append(qs, Ttick(q))
		}
	}
	return qs
}
