package main

import (
	"math"

	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/events"
	"github.com/emberworks/ember/game"
)

// Scenario shape for every evaluation run.
const (
	scenarioWorkers = 4
	scenarioScouts  = 0
)

// Fitness weights. Lower fitness is better, so throughput terms are
// negative and failure terms positive.
const (
	weightExtracted  = 3.0
	weightFinal      = 1.0
	weightDepletion  = 50.0
	weightStarvation = 200.0
)

// FitnessEvaluator runs headless simulations and computes fitness.
// Evaluations are strictly sequential: each run mutates the process
// global configuration before stepping.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int64
	seeds    []int64

	lastExtracted float64 // from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
	}
}

// LastExtracted returns the mean minerals extracted in the most recent
// evaluation, for progress reporting.
func (fe *FitnessEvaluator) LastExtracted() float64 {
	return fe.lastExtracted
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	fe.params.ApplyToConfig(config.Cfg(), x)

	var total, extracted float64
	for _, seed := range fe.seeds {
		fitness, mined, err := fe.runSimulation(seed)
		if err != nil {
			// A run that cannot start is as bad as total starvation.
			total += weightStarvation * float64(fe.maxTicks)
			continue
		}
		total += fitness
		extracted += mined
	}
	fe.lastExtracted = extracted / float64(len(fe.seeds))
	return total / float64(len(fe.seeds))
}

// runSimulation executes one headless run and scores it.
func (fe *FitnessEvaluator) runSimulation(seed int64) (fitness, extracted float64, err error) {
	g, err := game.NewGame(game.Options{Seed: seed})
	if err != nil {
		return 0, 0, err
	}
	defer g.Close()

	workerIDs := make([]uint32, 0, scenarioWorkers)
	cfg := config.Cfg()
	cx, cz := cfg.World.Width/2, cfg.World.Height/2
	for i := 0; i < scenarioWorkers; i++ {
		id, spawnErr := g.SpawnUnit("worker", cx+float64(i)*3, cz)
		if spawnErr != nil {
			return 0, 0, spawnErr
		}
		workerIDs = append(workerIDs, id)
	}
	if _, err := g.SpawnBuilding("power_plant", cx-10, cz-10, true); err != nil {
		return 0, 0, err
	}

	// Count global pool failures through the notification bus.
	depletions := 0
	unsub := g.Bus().Subscribe(events.LedgerEnergyDepleted, func(events.Payload) {
		depletions++
	})
	defer unsub()

	initialMinerals := g.Deposits().TotalRemaining()

	for _, id := range workerIDs {
		g.CommandMineNearest(id)
	}

	starvedTicks := int64(0)
	for g.Tick() < fe.maxTicks {
		g.Step()
		allIdle := true
		for _, id := range workerIDs {
			if g.GetActionStatus(id).Active {
				allIdle = false
				continue
			}
			if g.Deposits().ActiveCount() > 0 {
				g.CommandMineNearest(id)
			}
		}
		if allIdle && g.Deposits().ActiveCount() > 0 {
			// Minerals remain but nobody can afford to work.
			starvedTicks++
		}
	}

	extracted = initialMinerals - g.Deposits().TotalRemaining()
	finalEnergy := g.Ledger().TotalEnergy()
	for _, id := range workerIDs {
		finalEnergy += g.GetCurrentEnergy(id)
	}

	fitness = -weightExtracted*extracted -
		weightFinal*finalEnergy +
		weightDepletion*float64(depletions) +
		weightStarvation*float64(starvedTicks)*cfg.Physics.DT
	if math.IsNaN(fitness) || math.IsInf(fitness, 0) {
		fitness = weightStarvation * float64(fe.maxTicks)
	}
	return fitness, extracted, nil
}
