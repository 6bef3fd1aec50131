// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Sim        SimConfig        `yaml:"sim"`
	World      WorldConfig      `yaml:"world"`
	Spatial    SpatialConfig    `yaml:"spatial"`
	Population PopulationConfig `yaml:"population"`
	Needs      NeedsConfig      `yaml:"needs"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Breeding   BreedingConfig   `yaml:"breeding"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Species    []SpeciesConfig  `yaml:"species"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds core timing parameters.
type SimConfig struct {
	DT        float64 `yaml:"dt"`         // seconds per tick
	DayLength float64 `yaml:"day_length"` // sim seconds per world day
}

// WorldConfig holds simulation world dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"` // 0 = flat world
}

// SpatialConfig holds spatial index parameters.
type SpatialConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
	Max     int `yaml:"max"`
}

// SpeciesConfig defines a species template. Life-stage boundaries are
// fractions of the species lifespan.
type SpeciesConfig struct {
	Name             string  `yaml:"name"`
	LifespanDays     float64 `yaml:"lifespan_days"`
	JuvenileFraction float64 `yaml:"juvenile_fraction"` // embryo ends here
	AdultFraction    float64 `yaml:"adult_fraction"`    // juvenile ends here
	ElderFraction    float64 `yaml:"elder_fraction"`    // adult ends here
	OffspringMin     int     `yaml:"offspring_min"`
	OffspringMax     int     `yaml:"offspring_max"`
	TerritoryRadius  float64 `yaml:"territory_radius"`
}

// NeedsConfig holds per-need decay rates (satisfaction lost per second)
// and the executor's restoration parameters.
type NeedsConfig struct {
	HungerDecay       float64 `yaml:"hunger_decay"`
	ThirstDecay       float64 `yaml:"thirst_decay"`
	EnergyDecay       float64 `yaml:"energy_decay"`
	SocialDecay       float64 `yaml:"social_decay"`
	ExplorationDecay  float64 `yaml:"exploration_decay"`
	TerritorialDecay  float64 `yaml:"territorial_decay"`
	BreedingUrgeDecay float64 `yaml:"breeding_urge_decay"`

	SatisfyRate float64 `yaml:"satisfy_rate"` // need gain per second at full intensity
	ActiveDrain float64 `yaml:"active_drain"` // energy cost per second of non-rest activity
}

// BehaviorWeights holds per-category base weights for decision making.
type BehaviorWeights struct {
	Idle        float64 `yaml:"idle"`
	Foraging    float64 `yaml:"foraging"`
	Drinking    float64 `yaml:"drinking"`
	Resting     float64 `yaml:"resting"`
	Socializing float64 `yaml:"socializing"`
	Exploring   float64 `yaml:"exploring"`
	Territorial float64 `yaml:"territorial"`
	Breeding    float64 `yaml:"breeding"`
	Migrating   float64 `yaml:"migrating"`
	Parenting   float64 `yaml:"parenting"`
}

// BehaviorConfig holds decision engine parameters.
type BehaviorConfig struct {
	DecisionInterval float64         `yaml:"decision_interval"` // seconds between decisions per creature
	NoiseAmplitude   float64         `yaml:"noise_amplitude"`   // bounded additive weight noise, scaled by curiosity
	BaseWeights      BehaviorWeights `yaml:"base_weights"`

	HighStress        float64 `yaml:"high_stress"`        // stress above this suppresses outgoing behaviors
	LowSatisfaction   float64 `yaml:"low_satisfaction"`   // satisfaction below this boosts provisioning
	StressSuppression float64 `yaml:"stress_suppression"` // multiplier applied when stressed
	ScarcityBoost     float64 `yaml:"scarcity_boost"`     // multiplier applied when dissatisfied
	ElderDiscount     float64 `yaml:"elder_discount"`     // elder multiplier on exploring/territorial
	ElderComfort      float64 `yaml:"elder_comfort"`      // elder multiplier on idle/parenting
}

// BreedingConfig holds mate selection and gestation parameters.
type BreedingConfig struct {
	MaxDistance        float64 `yaml:"max_distance"`
	ReadinessThreshold float64 `yaml:"readiness_threshold"`
	ReadinessGain      float64 `yaml:"readiness_gain"` // readiness per second while Seeking
	GestationSec       float64 `yaml:"gestation_sec"`
	CaringSec          float64 `yaml:"caring_sec"`
	CooldownSec        float64 `yaml:"cooldown_sec"`
	CourtshipSec       float64 `yaml:"courtship_sec"` // Mating duration before offspring are conceived
	FitnessWeight      float64 `yaml:"fitness_weight"`
	MutationJitter     float64 `yaml:"mutation_jitter"`
	RequireTerritory   bool    `yaml:"require_territory"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // sim seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged for phase timings
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32
	DaysPerTick  float32          // world days advanced per tick
	SpeciesIndex map[string]uint8 // name -> index
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided. A missing file is not fatal: the
	// embedded defaults stand, logged once here.
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			// Unmarshal into same struct - only overwrites fields present in file
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	if c.Sim.DayLength > 0 {
		c.Derived.DaysPerTick = float32(c.Sim.DT / c.Sim.DayLength)
	}

	// Synthesize a default species if none specified
	if len(c.Species) == 0 {
		c.Species = []SpeciesConfig{
			{
				Name:             "strider",
				LifespanDays:     120,
				JuvenileFraction: 0.04,
				AdultFraction:    0.18,
				ElderFraction:    0.80,
				OffspringMin:     1,
				OffspringMax:     3,
				TerritoryRadius:  30,
			},
		}
	}

	// Apply defaults to species that don't specify all fields
	for i := range c.Species {
		sp := &c.Species[i]
		if sp.LifespanDays == 0 {
			sp.LifespanDays = 120
		}
		if sp.JuvenileFraction == 0 {
			sp.JuvenileFraction = 0.04
		}
		if sp.AdultFraction == 0 {
			sp.AdultFraction = 0.18
		}
		if sp.ElderFraction == 0 {
			sp.ElderFraction = 0.80
		}
		if sp.OffspringMin == 0 {
			sp.OffspringMin = 1
		}
		if sp.OffspringMax < sp.OffspringMin {
			sp.OffspringMax = sp.OffspringMin
		}
		if sp.TerritoryRadius == 0 {
			sp.TerritoryRadius = 30
		}
	}

	// Build species index for fast lookup
	c.Derived.SpeciesIndex = make(map[string]uint8, len(c.Species))
	for i, sp := range c.Species {
		c.Derived.SpeciesIndex[sp.Name] = uint8(i)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
