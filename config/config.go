// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World         WorldConfig          `yaml:"world"`
	Physics       PhysicsConfig        `yaml:"physics"`
	Ledger        LedgerConfig         `yaml:"ledger"`
	Storage       StorageConfig        `yaml:"storage"`
	Movement      MovementConfig       `yaml:"movement"`
	Mining        MiningConfig         `yaml:"mining"`
	Construction  ConstructionConfig   `yaml:"construction"`
	Conversion    ConversionConfig     `yaml:"conversion"`
	Deposits      DepositsConfig       `yaml:"deposits"`
	Territory     TerritoryConfig      `yaml:"territory"`
	Telemetry     TelemetryConfig      `yaml:"telemetry"`
	UnitTypes     []UnitTypeConfig     `yaml:"unit_types"`
	BuildingTypes []BuildingTypeConfig `yaml:"building_types"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds the fixed simulation timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// LedgerConfig holds the global economy pool parameters.
// The pool is uncapped, so low/depleted thresholds are absolute values
// rather than capacity fractions.
type LedgerConfig struct {
	StartingEnergy    float64 `yaml:"starting_energy"`
	StartingMaterials float64 `yaml:"starting_materials"`
	LowEnergy         float64 `yaml:"low_energy"`
	DepletedEnergy    float64 `yaml:"depleted_energy"`
	RateWindowMS      int     `yaml:"rate_window_ms"`     // generation/consumption rate window
	TransactionWindow int     `yaml:"transaction_window"` // retained transaction count
}

// StorageConfig holds per-entity reservoir defaults.
type StorageConfig struct {
	Capacity          float64 `yaml:"capacity"`
	InitialFill       float64 `yaml:"initial_fill"`       // fraction of capacity at spawn
	Efficiency        float64 `yaml:"efficiency"`         // fraction of added energy stored
	LowThreshold      float64 `yaml:"low_threshold"`      // fraction of capacity
	CriticalThreshold float64 `yaml:"critical_threshold"` // fraction of capacity
}

// MovementConfig holds the movement cost model.
type MovementConfig struct {
	EnergyPerUnit float64 `yaml:"energy_per_unit"` // energy per world unit traveled
}

// MiningConfig holds the mining cost and yield model.
type MiningConfig struct {
	EnergyPerSecond float64 `yaml:"energy_per_second"` // upkeep while extracting
	BaseRate        float64 `yaml:"base_rate"`         // materials per second at speed 1
	Range           float64 `yaml:"range"`             // max distance to the deposit
}

// ConstructionConfig holds construction defaults.
type ConstructionConfig struct {
	DefaultCost float64 `yaml:"default_cost"` // used when a building type omits energy_cost
}

// ConversionConfig holds the materials→energy conversion relation.
// These are configuration rather than fixed simulation constants; the
// bonus is a runtime-adjustable percentage.
type ConversionConfig struct {
	MaterialsPerSecond float64 `yaml:"materials_per_second"` // per generator building
	EnergyPerMaterial  float64 `yaml:"energy_per_material"`
	BonusPercent       float64 `yaml:"bonus_percent"`
}

// DepositsConfig holds mineral deposit placement parameters.
type DepositsConfig struct {
	Count     int     `yaml:"count"`
	MinAmount float64 `yaml:"min_amount"`
	MaxAmount float64 `yaml:"max_amount"`
}

// TerritoryConfig holds liberation-bonus zones.
type TerritoryConfig struct {
	Zones []ZoneConfig `yaml:"zones"`
}

// ZoneConfig is a circular territory zone granting a mining yield bonus.
type ZoneConfig struct {
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
	Bonus  float64 `yaml:"bonus"` // fractional yield bonus, e.g. 0.25
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// UnitTypeConfig defines a spawnable unit type.
type UnitTypeConfig struct {
	Name        string  `yaml:"name"`
	Speed       float64 `yaml:"speed"` // world units per second
	Capacity    float64 `yaml:"capacity"`
	Efficiency  float64 `yaml:"efficiency"`
	MiningRange float64 `yaml:"mining_range"` // 0 = use mining.range
	CanMine     bool    `yaml:"can_mine"`
	CanBuild    bool    `yaml:"can_build"`
}

// BuildingTypeConfig defines a constructible building type.
type BuildingTypeConfig struct {
	Name            string  `yaml:"name"`
	EnergyCost      float64 `yaml:"energy_cost"` // 0 = use construction.default_cost
	Capacity        float64 `yaml:"capacity"`
	GeneratesEnergy bool    `yaml:"generates_energy"`
	ConsumptionRate float64 `yaml:"consumption_rate"` // materials/sec, 0 = use conversion.materials_per_second
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32
	WorldW32      float32
	WorldH32      float32
	UnitIndex     map[string]int // unit type name -> index
	BuildingIndex map[string]int // building type name -> index
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

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations that would break economy invariants.
func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Storage.Efficiency < 0 || c.Storage.Efficiency > 1 {
		return fmt.Errorf("storage.efficiency must be in [0,1], got %v", c.Storage.Efficiency)
	}
	if c.Ledger.StartingEnergy < 0 || c.Ledger.StartingMaterials < 0 {
		return fmt.Errorf("ledger starting pools must be non-negative")
	}
	if c.Conversion.MaterialsPerSecond < 0 || c.Conversion.EnergyPerMaterial < 0 {
		return fmt.Errorf("conversion rates must be non-negative")
	}
	for _, ut := range c.UnitTypes {
		if ut.Name == "" {
			return fmt.Errorf("unit type with empty name")
		}
	}
	for _, bt := range c.BuildingTypes {
		if bt.Name == "" {
			return fmt.Errorf("building type with empty name")
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)

	if c.Ledger.TransactionWindow <= 0 {
		c.Ledger.TransactionWindow = 100
	}
	if c.Ledger.RateWindowMS <= 0 {
		c.Ledger.RateWindowMS = 1000
	}

	c.Derived.UnitIndex = make(map[string]int, len(c.UnitTypes))
	for i, ut := range c.UnitTypes {
		c.Derived.UnitIndex[ut.Name] = i
	}
	c.Derived.BuildingIndex = make(map[string]int, len(c.BuildingTypes))
	for i, bt := range c.BuildingTypes {
		c.Derived.BuildingIndex[bt.Name] = i
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
