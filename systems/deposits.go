package systems

import (
	"math/rand"

	"github.com/emberworks/ember/components"
	"github.com/emberworks/ember/config"
)

// Deposit is a finite mineral deposit. While a miner works it the
// deposit is held exclusively; StopMining releases the hold.
type Deposit struct {
	ID     int32
	Pos    components.Position
	Amount float64
	Rate   float64 // materials per second at yield multiplier 1

	miner uint32 // 0 = unclaimed
}

// CanMine reports whether the deposit can be worked right now.
func (d *Deposit) CanMine() bool {
	return !d.IsDepleted() && d.miner == 0
}

// Claim takes the deposit's exclusivity for the given miner. Re-claiming
// by the current holder succeeds.
func (d *Deposit) Claim(miner uint32) bool {
	if d.IsDepleted() {
		return false
	}
	if d.miner != 0 && d.miner != miner {
		return false
	}
	d.miner = miner
	return true
}

// Mine extracts up to Rate×dt materials, capped at what remains, and
// returns the amount actually extracted.
func (d *Deposit) Mine(dt float64) float64 {
	if dt <= 0 || d.IsDepleted() {
		return 0
	}
	extracted := d.Rate * dt
	if extracted > d.Amount {
		extracted = d.Amount
	}
	d.Amount -= extracted
	return extracted
}

// IsDepleted reports whether the deposit is exhausted.
func (d *Deposit) IsDepleted() bool { return d.Amount <= 0 }

// StopMining releases the deposit's exclusivity. Only the holder can
// release; a stranger stopping does not evict the working miner.
func (d *Deposit) StopMining(miner uint32) {
	if d.miner == miner {
		d.miner = 0
	}
}

// Position returns the deposit's world position.
func (d *Deposit) Position() components.Position { return d.Pos }

// Miner returns the id of the current holder, 0 if unclaimed.
func (d *Deposit) Miner() uint32 { return d.miner }

// DepositField owns all mineral deposits in a session. Deposits live
// outside the ECS; actions reference them by id.
type DepositField struct {
	deposits []Deposit
}

// NewDepositField scatters deposits across the world, with Y taken from
// the terrain height field.
func NewDepositField(cfg *config.Config, terrain HeightField, rng *rand.Rand) *DepositField {
	f := &DepositField{deposits: make([]Deposit, 0, cfg.Deposits.Count)}
	span := cfg.Deposits.MaxAmount - cfg.Deposits.MinAmount
	for i := 0; i < cfg.Deposits.Count; i++ {
		x := rng.Float64() * cfg.World.Width
		z := rng.Float64() * cfg.World.Height
		y := 0.0
		if terrain != nil {
			y = terrain.HeightAt(x, z)
		}
		f.deposits = append(f.deposits, Deposit{
			ID:     int32(i),
			Pos:    components.Position{X: x, Y: y, Z: z},
			Amount: cfg.Deposits.MinAmount + rng.Float64()*span,
			Rate:   cfg.Mining.BaseRate,
		})
	}
	return f
}

// AddDeposit appends a deposit and returns it. Used by tests and by
// scripted scenarios.
func (f *DepositField) AddDeposit(pos components.Position, amount, rate float64) *Deposit {
	f.deposits = append(f.deposits, Deposit{
		ID:     int32(len(f.deposits)),
		Pos:    pos,
		Amount: amount,
		Rate:   rate,
	})
	return &f.deposits[len(f.deposits)-1]
}

// Get returns the deposit with the given id, or nil.
func (f *DepositField) Get(id int32) *Deposit {
	if id < 0 || int(id) >= len(f.deposits) {
		return nil
	}
	return &f.deposits[id]
}

// Nearest returns the closest non-depleted deposit to pos, or nil.
func (f *DepositField) Nearest(pos components.Position) *Deposit {
	var best *Deposit
	bestDist := 0.0
	for i := range f.deposits {
		d := &f.deposits[i]
		if d.IsDepleted() {
			continue
		}
		dist := pos.DistanceTo(d.Pos)
		if best == nil || dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best
}

// TotalRemaining sums the materials left across all deposits.
func (f *DepositField) TotalRemaining() float64 {
	total := 0.0
	for i := range f.deposits {
		total += f.deposits[i].Amount
	}
	return total
}

// Count returns the number of deposits.
func (f *DepositField) Count() int { return len(f.deposits) }

// ActiveCount returns how many deposits still have minerals.
func (f *DepositField) ActiveCount() int {
	n := 0
	for i := range f.deposits {
		if !f.deposits[i].IsDepleted() {
			n++
		}
	}
	return n
}
