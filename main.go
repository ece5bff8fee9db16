package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 36000, "Stop after N ticks")
	workers := flag.Int("workers", 4, "Worker units to spawn")
	scouts := flag.Int("scouts", 1, "Scout units to spawn")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	g, err := game.NewGame(game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}

	if err := spawnScenario(g, cfg, *workers, *scouts); err != nil {
		slog.Error("scenario setup failed", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"stats_window", statsWindowSec,
		"max_ticks", *maxTicks,
		"workers", *workers,
		"deposits", g.Deposits().Count(),
		"output", g.Dir(),
	)

	for int(g.Tick()) < *maxTicks {
		g.Step()
		driveIdleWorkers(g)
	}

	slog.Info("simulation complete",
		"tick", g.Tick(),
		"energy", g.Ledger().TotalEnergy(),
		"materials", g.Ledger().TotalMaterials(),
		"deposits_left", g.Deposits().ActiveCount(),
	)

	if err := g.Close(); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

// spawnScenario places the starting population: workers and scouts
// around the map center plus one pre-built power plant.
func spawnScenario(g *game.Game, cfg *config.Config, workers, scouts int) error {
	cx := cfg.World.Width / 2
	cz := cfg.World.Height / 2

	workerIDs := make([]uint32, 0, workers)
	for i := 0; i < workers; i++ {
		id, err := g.SpawnUnit("worker", cx+float64(i)*3, cz)
		if err != nil {
			return err
		}
		workerIDs = append(workerIDs, id)
	}
	for i := 0; i < scouts; i++ {
		if _, err := g.SpawnUnit("scout", cx, cz+float64(i)*3); err != nil {
			return err
		}
	}
	if _, err := g.SpawnBuilding("power_plant", cx-10, cz-10, true); err != nil {
		return err
	}

	for _, id := range workerIDs {
		if res := g.CommandMineNearest(id); !res.Success {
			slog.Warn("initial mining order rejected", "unit", id, "reason", res.Reason)
		}
	}
	return nil
}

// driveIdleWorkers re-tasks workers whose deposit ran dry. This is the
// entire "AI": mine the nearest live deposit, stay idle when the map
// is exhausted.
func driveIdleWorkers(g *game.Game) {
	for _, id := range g.UnitIDs() {
		status := g.GetActionStatus(id)
		if status.Active {
			continue
		}
		if g.Deposits().ActiveCount() == 0 {
			continue
		}
		g.CommandMineNearest(id)
	}
}
