// SPDX-License-Identifier: MIT

// Package config - job schema, defaults, validation and YAML round-trip.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/stabmass/exceptional"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/sampling"
)

// ErrInvalidConfig marks every validation failure.
var ErrInvalidConfig = errors.New("config: invalid job")

// Object kinds accepted in a job file.
const (
	KindLineBundle = "line_bundle"
	KindTwist      = "twist"
	KindCoproduct  = "coproduct"
	KindNumerical  = "numerical"
	KindSheaf      = "sheaf"
)

// Config is a complete job description.
type Config struct {
	Geometry  GeometryConfig  `yaml:"geometry"`
	Stability StabilityConfig `yaml:"stability"`
	Objects   []ObjectConfig  `yaml:"objects"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Store     StoreConfig     `yaml:"store"`
}

// GeometryConfig selects a canned context or spells out an intersection table.
type GeometryConfig struct {
	// Category is one of P1, LocalP1, P2, LocalP2, K3.
	Category string `yaml:"category"`
	// Degree selects the canned Picard-rank-one K3 with H·H = 2·Degree.
	Degree int64 `yaml:"degree,omitempty"`
	// Basis and Intersections replace the canned context when non-empty.
	Basis         []string             `yaml:"basis,omitempty"`
	Intersections []IntersectionConfig `yaml:"intersections,omitempty"`
	Polarization  string               `yaml:"polarization,omitempty"`
}

// IntersectionConfig is one entry of the top intersection form; Value is a
// rational string such as "2" or "1/2".
type IntersectionConfig struct {
	Divisors []string `yaml:"divisors"`
	Value    string   `yaml:"value"`
}

// StabilityConfig holds the condition parameters in the order of stability.New.
type StabilityConfig struct {
	Params           []float64 `yaml:"params"`
	Sqrt             bool      `yaml:"sqrt,omitempty"`
	MaxCandidateRank int       `yaml:"max_candidate_rank,omitempty"`
	MaxCh2Steps      int       `yaml:"max_ch2_steps,omitempty"`
}

// ObjectConfig names one derived object. Which fields apply depends on Kind.
type ObjectConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	Divisor string       `yaml:"divisor,omitempty"` // line_bundle
	Bundles []string     `yaml:"bundles,omitempty"` // twist, innermost first
	Terms   []TermConfig `yaml:"terms,omitempty"`   // coproduct
	Ch      string       `yaml:"ch,omitempty"`      // numerical
	Rank    int64        `yaml:"rank,omitempty"`    // sheaf
	C1      string       `yaml:"c1,omitempty"`      // sheaf
	C2      string       `yaml:"c2,omitempty"`      // sheaf
}

// TermConfig is one summand of a coproduct; Object names an earlier object.
type TermConfig struct {
	Object       string `yaml:"object"`
	Shift        int    `yaml:"shift,omitempty"`
	Multiplicity int    `yaml:"multiplicity,omitempty"`
}

// SamplingConfig describes a sampling run.
type SamplingConfig struct {
	Object          string        `yaml:"object,omitempty"`
	Grid            sampling.Grid `yaml:"grid"`
	Workers         int           `yaml:"workers,omitempty"`
	FailureSentinel *float64      `yaml:"failure_sentinel,omitempty"`
	CurveDepth      int           `yaml:"curve_depth,omitempty"`
	BDirection      []float64     `yaml:"b_direction,omitempty"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the local P2 job used by the CLI when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Geometry:  GeometryConfig{Category: geometry.LocalP2.String()},
		Stability: StabilityConfig{Params: []float64{0.5, 0.9}},
		Objects: []ObjectConfig{
			{Name: "O(-3)", Kind: KindLineBundle, Divisor: "-3H"},
			{Name: "O(-2)", Kind: KindLineBundle, Divisor: "-2H"},
			{Name: "sum", Kind: KindCoproduct, Terms: []TermConfig{
				{Object: "O(-3)", Shift: 1},
				{Object: "O(-2)", Shift: 2},
			}},
		},
		Sampling: SamplingConfig{
			Object:     "sum",
			Grid:       sampling.Grid{XMin: -1, XMax: 1, XSteps: 21, YMin: 0, YMax: 2, YSteps: 21},
			CurveDepth: sampling.DefaultCurveDepth,
		},
		Store: StoreConfig{Path: "stabmass.db"},
	}
}

// Validate checks the job without building any geometry.
func (c *Config) Validate() error {
	if _, err := geometry.ParseCategory(c.Geometry.Category); err != nil {
		return fmt.Errorf("geometry.category: %w: %w", err, ErrInvalidConfig)
	}
	if len(c.Geometry.Intersections) > 0 && len(c.Geometry.Basis) == 0 {
		return fmt.Errorf("geometry: intersections without basis: %w", ErrInvalidConfig)
	}
	if len(c.Stability.Params) == 0 {
		return fmt.Errorf("stability.params is required: %w", ErrInvalidConfig)
	}
	if c.Stability.MaxCandidateRank < 0 || c.Stability.MaxCh2Steps < 0 {
		return fmt.Errorf("stability: negative search bound: %w", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Objects))
	for i, o := range c.Objects {
		if strings.TrimSpace(o.Name) == "" {
			return fmt.Errorf("objects[%d]: name is required: %w", i, ErrInvalidConfig)
		}
		if seen[o.Name] {
			return fmt.Errorf("objects[%d]: duplicate name %q: %w", i, o.Name, ErrInvalidConfig)
		}
		if err := o.validate(seen); err != nil {
			return fmt.Errorf("objects[%d] %q: %w", i, o.Name, err)
		}
		seen[o.Name] = true
	}

	if c.Sampling.Object != "" && !seen[c.Sampling.Object] {
		return fmt.Errorf("sampling.object %q is not defined: %w", c.Sampling.Object, ErrInvalidConfig)
	}
	if err := c.Sampling.Grid.Validate(); err != nil {
		return fmt.Errorf("sampling.grid: %w: %w", err, ErrInvalidConfig)
	}
	if c.Sampling.Workers < 0 {
		return fmt.Errorf("sampling.workers must be ≥ 0: %w", ErrInvalidConfig)
	}
	if c.Sampling.CurveDepth < 0 || c.Sampling.CurveDepth > exceptional.MaxDepth {
		return fmt.Errorf("sampling.curve_depth %d: %w", c.Sampling.CurveDepth, ErrInvalidConfig)
	}

	return nil
}

func (o ObjectConfig) validate(earlier map[string]bool) error {
	switch o.Kind {
	case KindLineBundle:
		if o.Divisor == "" {
			return fmt.Errorf("divisor is required: %w", ErrInvalidConfig)
		}
	case KindTwist:
		if len(o.Bundles) < 2 {
			return fmt.Errorf("twist needs at least two bundles: %w", ErrInvalidConfig)
		}
	case KindCoproduct:
		for _, t := range o.Terms {
			if !earlier[t.Object] {
				return fmt.Errorf("term references %q before its definition: %w", t.Object, ErrInvalidConfig)
			}
			if t.Multiplicity < 0 {
				return fmt.Errorf("term %q: negative multiplicity: %w", t.Object, ErrInvalidConfig)
			}
		}
	case KindNumerical:
		if o.Ch == "" {
			return fmt.Errorf("ch is required: %w", ErrInvalidConfig)
		}
	case KindSheaf:
		if o.Rank < 0 {
			return fmt.Errorf("negative rank: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown kind %q: %w", o.Kind, ErrInvalidConfig)
	}

	return nil
}

// LoadFromFile reads a job over the defaults and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	config.Objects = nil
	config.Sampling.Object = ""
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveToFile writes the job as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
