package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Units     int `csv:"units"`
	Buildings int `csv:"buildings"`

	// Economy pools at window end
	LedgerEnergy    float64 `csv:"ledger_energy"`
	LedgerMaterials float64 `csv:"ledger_materials"`
	GenerationRate  float64 `csv:"generation_rate"`
	ConsumptionRate float64 `csv:"consumption_rate"`
	StoredEnergy    float64 `csv:"stored_energy"`
	ReservedEnergy  float64 `csv:"reserved_energy"`
	DepositsLeft    float64 `csv:"deposits_left"`

	// Events during window
	Reservations     int     `csv:"reservations"`
	Refunds          int     `csv:"refunds"`
	Insufficiencies  int     `csv:"insufficiencies"`
	MovesCompleted   int     `csv:"moves_completed"`
	MinesCompleted   int     `csv:"mines_completed"`
	BuildsCompleted  int     `csv:"builds_completed"`
	ActionsCancelled int     `csv:"actions_cancelled"`
	Conversions      int     `csv:"conversions"`
	MaterialsMined   float64 `csv:"materials_mined"`
	EnergyConverted  float64 `csv:"energy_converted"`
	EnergyDrained    float64 `csv:"energy_drained"`

	// Reservoir fill distribution (sampled at window end)
	FillMean float64 `csv:"fill_mean"`
	FillStd  float64 `csv:"fill_std"`
	FillP10  float64 `csv:"fill_p10"`
	FillP50  float64 `csv:"fill_p50"`
	FillP90  float64 `csv:"fill_p90"`
}

// fillDistribution computes the reservoir fill-level distribution.
func (s *WindowStats) fillDistribution(fills []float64) {
	if len(fills) == 0 {
		return
	}
	sorted := append([]float64(nil), fills...)
	sort.Float64s(sorted)

	s.FillMean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.FillStd = stat.StdDev(sorted, nil)
	}
	s.FillP10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	s.FillP50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.FillP90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("units", s.Units),
		slog.Int("buildings", s.Buildings),
		slog.Float64("ledger_energy", s.LedgerEnergy),
		slog.Float64("ledger_materials", s.LedgerMaterials),
		slog.Float64("generation_rate", s.GenerationRate),
		slog.Float64("consumption_rate", s.ConsumptionRate),
		slog.Float64("stored_energy", s.StoredEnergy),
		slog.Float64("reserved_energy", s.ReservedEnergy),
		slog.Float64("deposits_left", s.DepositsLeft),
		slog.Int("reservations", s.Reservations),
		slog.Int("refunds", s.Refunds),
		slog.Int("insufficiencies", s.Insufficiencies),
		slog.Int("moves_completed", s.MovesCompleted),
		slog.Int("mines_completed", s.MinesCompleted),
		slog.Int("builds_completed", s.BuildsCompleted),
		slog.Int("actions_cancelled", s.ActionsCancelled),
		slog.Int("conversions", s.Conversions),
		slog.Float64("materials_mined", s.MaterialsMined),
		slog.Float64("energy_converted", s.EnergyConverted),
		slog.Float64("energy_drained", s.EnergyDrained),
		slog.Float64("fill_mean", s.FillMean),
		slog.Float64("fill_p50", s.FillP50),
	)
}
