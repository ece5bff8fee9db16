// Package main provides CMA-ES search for economy parameters that keep
// the energy loop solvent over long runs.
package main

import (
	"github.com/emberworks/ember/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable economy parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement
			{Name: "move_energy_per_unit", Path: "movement.energy_per_unit", Min: 0.01, Max: 0.5, Default: 0.1},
			// Mining
			{Name: "mining_energy_per_second", Path: "mining.energy_per_second", Min: 0.5, Max: 5.0, Default: 2.0},
			{Name: "mining_base_rate", Path: "mining.base_rate", Min: 0.5, Max: 4.0, Default: 1.5},
			// Conversion
			{Name: "conversion_energy_per_material", Path: "conversion.energy_per_material", Min: 2.0, Max: 10.0, Default: 5.0},
			{Name: "conversion_bonus_percent", Path: "conversion.bonus_percent", Min: 0.0, Max: 50.0, Default: 10.0},
			{Name: "conversion_materials_per_second", Path: "conversion.materials_per_second", Min: 0.25, Max: 3.0, Default: 1.0},
			// Storage
			{Name: "storage_capacity", Path: "storage.capacity", Min: 50.0, Max: 250.0, Default: 100.0},
			{Name: "storage_initial_fill", Path: "storage.initial_fill", Min: 0.2, Max: 1.0, Default: 0.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	i := 0
	cfg.Movement.EnergyPerUnit = clamped[i]
	i++
	cfg.Mining.EnergyPerSecond = clamped[i]
	i++
	cfg.Mining.BaseRate = clamped[i]
	i++
	cfg.Conversion.EnergyPerMaterial = clamped[i]
	i++
	cfg.Conversion.BonusPercent = clamped[i]
	i++
	cfg.Conversion.MaterialsPerSecond = clamped[i]
	i++
	cfg.Storage.Capacity = clamped[i]
	i++
	cfg.Storage.InitialFill = clamped[i]
}
