package systems

import (
	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/config"
)

// BonusProvider supplies the territory-derived mining yield bonus at a
// position. The bonus scales extraction, never the energy cost.
type BonusProvider interface {
	MiningBonusAt(pos components.Position) float64
}

// ZoneBonus grants bonuses inside configured circular zones. When zones
// overlap the largest bonus applies.
type ZoneBonus struct {
	zones []config.ZoneConfig
}

// NewZoneBonus creates a provider from configured zones.
func NewZoneBonus(zones []config.ZoneConfig) *ZoneBonus {
	return &ZoneBonus{zones: zones}
}

// MiningBonusAt returns the fractional yield bonus at pos.
func (z *ZoneBonus) MiningBonusAt(pos components.Position) float64 {
	best := 0.0
	for _, zone := range z.zones {
		dx := pos.X - zone.X
		dz := pos.Z - zone.Z
		if dx*dx+dz*dz <= zone.Radius*zone.Radius && zone.Bonus > best {
			best = zone.Bonus
		}
	}
	return best
}
