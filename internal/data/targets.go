// Package data loads the target and effect tuning tables.
package data

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var defaultTargets []byte

// PoolSpec sizes one object pool and its maintenance trim.
type PoolSpec struct {
	Size    int `yaml:"size"`
	Ceiling int `yaml:"ceiling"`
	Floor   int `yaml:"floor"`
}

// SpawnSpec drives a self-rescheduling spawn timer.
type SpawnSpec struct {
	FirstMs       int `yaml:"first_ms"`
	MinIntervalMs int `yaml:"min_interval_ms"`
	MaxIntervalMs int `yaml:"max_interval_ms"`
	BurstMin      int `yaml:"burst_min"`
	BurstMax      int `yaml:"burst_max"`
	StaggerMs     int `yaml:"stagger_ms"`
}

// First is the delay before the first burst.
func (s SpawnSpec) First() time.Duration { return ms(s.FirstMs) }

// Stagger is the delay between spawns within one burst.
func (s SpawnSpec) Stagger() time.Duration { return ms(s.StaggerMs) }

// MinInterval is the lower bound of the delay between bursts.
func (s SpawnSpec) MinInterval() time.Duration { return ms(s.MinIntervalMs) }

// MaxInterval is the exclusive upper bound of the delay between bursts.
func (s SpawnSpec) MaxInterval() time.Duration { return ms(s.MaxIntervalMs) }

// TargetSpec holds the tuning for one target kind.
type TargetSpec struct {
	Kind           string    `yaml:"kind"`
	HitRadius      float64   `yaml:"hit_radius"`
	Points         int       `yaml:"points"`
	SpeedMin       float64   `yaml:"speed_min"`
	SpeedMax       float64   `yaml:"speed_max"`
	BandMin        float64   `yaml:"band_min"`
	BandMax        float64   `yaml:"band_max"`
	StartX         float64   `yaml:"start_x"`
	ExitMargin     float64   `yaml:"exit_margin"`
	WaveAmplitude  float64   `yaml:"wave_amplitude"`
	WaveFrequency  float64   `yaml:"wave_frequency"`
	RemovalDelayMs int       `yaml:"removal_delay_ms"`
	Pool           PoolSpec  `yaml:"pool"`
	Spawn          SpawnSpec `yaml:"spawn"`
}

// RemovalDelay is the pool-return (or cloud re-arm) delay after a hit.
func (s *TargetSpec) RemovalDelay() time.Duration { return ms(s.RemovalDelayMs) }

// EffectSpec holds the tuning for one pooled effect kind.
type EffectSpec struct {
	Kind       string   `yaml:"kind"`
	DurationMs int      `yaml:"duration_ms"`
	Pool       PoolSpec `yaml:"pool"`
}

// Duration is how long the effect stays on screen.
func (s *EffectSpec) Duration() time.Duration { return ms(s.DurationMs) }

// Table indexes target and effect specs by kind name.
type Table struct {
	targets map[string]*TargetSpec
	effects map[string]*EffectSpec
}

// Target returns the spec for a target kind, or nil if not found.
func (t *Table) Target(kind string) *TargetSpec {
	return t.targets[kind]
}

// Effect returns the spec for an effect kind, or nil if not found.
func (t *Table) Effect(kind string) *EffectSpec {
	return t.effects[kind]
}

// Count returns the number of target kinds loaded.
func (t *Table) Count() int {
	return len(t.targets)
}

// RequiredTargets and RequiredEffects must be present in every table.
var (
	RequiredTargets = []string{"cloud", "airplane", "robot"}
	RequiredEffects = []string{"impact", "destruction"}
	spawnedTargets  = []string{"airplane", "robot"}
)

// --- YAML loading ---

type tableFile struct {
	Targets []TargetSpec `yaml:"targets"`
	Effects []EffectSpec `yaml:"effects"`
}

// Default returns the embedded tuning table.
func Default() *Table {
	t, err := Parse(defaultTargets)
	if err != nil {
		panic(fmt.Sprintf("embedded target table: %v", err))
	}
	return t
}

// LoadTable loads a tuning table from a YAML file.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("target table: read %s: %w", path, err)
	}
	t, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("target table: %s: %w", path, err)
	}
	return t, nil
}

// LoadOrDefault loads path, or returns the embedded table when path is empty.
func LoadOrDefault(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadTable(path)
}

// Parse decodes and validates a tuning table.
func Parse(raw []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	t := &Table{
		targets: make(map[string]*TargetSpec, len(f.Targets)),
		effects: make(map[string]*EffectSpec, len(f.Effects)),
	}
	for i := range f.Targets {
		s := &f.Targets[i]
		if _, dup := t.targets[s.Kind]; dup {
			return nil, fmt.Errorf("duplicate target kind %q", s.Kind)
		}
		t.targets[s.Kind] = s
	}
	for i := range f.Effects {
		s := &f.Effects[i]
		if _, dup := t.effects[s.Kind]; dup {
			return nil, fmt.Errorf("duplicate effect kind %q", s.Kind)
		}
		t.effects[s.Kind] = s
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every required kind is present and its ranges are sane.
func (t *Table) Validate() error {
	var errs []error
	for _, kind := range RequiredTargets {
		s := t.targets[kind]
		if s == nil {
			errs = append(errs, fmt.Errorf("missing target kind %q", kind))
			continue
		}
		errs = append(errs, s.validate())
	}
	for _, kind := range spawnedTargets {
		if s := t.targets[kind]; s != nil {
			errs = append(errs, s.Pool.validate(kind), s.Spawn.validate(kind))
		}
	}
	for _, kind := range RequiredEffects {
		s := t.effects[kind]
		if s == nil {
			errs = append(errs, fmt.Errorf("missing effect kind %q", kind))
			continue
		}
		if s.DurationMs <= 0 {
			errs = append(errs, fmt.Errorf("effect %s: duration_ms must be positive", kind))
		}
		errs = append(errs, s.Pool.validate(kind))
	}
	return errors.Join(errs...)
}

func (s *TargetSpec) validate() error {
	switch {
	case s.HitRadius <= 0:
		return fmt.Errorf("target %s: hit_radius must be positive", s.Kind)
	case s.SpeedMin < 0 || s.SpeedMax < s.SpeedMin:
		return fmt.Errorf("target %s: bad speed range [%v, %v)", s.Kind, s.SpeedMin, s.SpeedMax)
	case s.BandMin < 0 || s.BandMax > 1 || s.BandMax < s.BandMin:
		return fmt.Errorf("target %s: bad band range [%v, %v)", s.Kind, s.BandMin, s.BandMax)
	case s.ExitMargin < 0:
		return fmt.Errorf("target %s: exit_margin must not be negative", s.Kind)
	case s.RemovalDelayMs < 0:
		return fmt.Errorf("target %s: removal_delay_ms must not be negative", s.Kind)
	}
	return nil
}

func (p PoolSpec) validate(kind string) error {
	switch {
	case p.Size <= 0:
		return fmt.Errorf("%s pool: size must be positive", kind)
	case p.Floor <= 0 || p.Ceiling < p.Floor:
		return fmt.Errorf("%s pool: need 0 < floor <= ceiling, got %d/%d", kind, p.Floor, p.Ceiling)
	}
	return nil
}

func (s SpawnSpec) validate(kind string) error {
	switch {
	case s.FirstMs < 0 || s.StaggerMs < 0:
		return fmt.Errorf("%s spawn: delays must not be negative", kind)
	case s.MinIntervalMs <= 0 || s.MaxIntervalMs < s.MinIntervalMs:
		return fmt.Errorf("%s spawn: bad interval [%d, %d)", kind, s.MinIntervalMs, s.MaxIntervalMs)
	case s.BurstMin < 1 || s.BurstMax < s.BurstMin:
		return fmt.Errorf("%s spawn: bad burst size %d..%d", kind, s.BurstMin, s.BurstMax)
	}
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
