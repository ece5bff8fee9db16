package systems

import (
	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/ledger"
)

// Converter runs the materials→energy conversion for generator
// buildings ("power plants"). The ratio and bonus come from config; the
// bonus percentage can be adjusted at runtime.
type Converter struct {
	Ratio        float64 // energy produced per material consumed
	BonusPercent float64
}

// NewConverter creates a converter from the configured relation.
func NewConverter(cfg config.ConversionConfig) Converter {
	return Converter{
		Ratio:        cfg.EnergyPerMaterial,
		BonusPercent: cfg.BonusPercent,
	}
}

// Step runs one frame of conversion for one generator building.
// materialsNeeded = consumptionRate×dt; when the ledger cannot cover it
// the building simply produces nothing this tick — silent backpressure,
// not a failure. The materials debit and the energy credit happen
// together, so there is never a partial conversion.
//
// Returns the energy produced and whether conversion ran.
func (c Converter) Step(l *ledger.Ledger, buildingID uint32, consumptionRate, dt float64) (float64, bool) {
	need := consumptionRate * dt
	if need <= 0 {
		return 0, false
	}
	if !l.CanConsumeMaterials(need) {
		return 0, false
	}
	l.ConsumeMaterials(buildingID, need, "conversion")
	produced := need * c.Ratio * (1 + c.BonusPercent/100)
	l.GenerateEnergy(buildingID, produced, "conversion")
	return produced, true
}
