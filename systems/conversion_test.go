package systems

import (
	"math"
	"testing"

	"github.com/emberworks/ember/config"
)

func TestConversionRelation(t *testing.T) {
	c := NewConverter(config.ConversionConfig{EnergyPerMaterial: 5, BonusPercent: 10})
	l := newSystemsLedger()

	// 1 material at ratio 5 with +10% bonus yields 5.5 energy.
	produced, ok := c.Step(l, 42, 2.0, 0.5)
	if !ok {
		t.Fatal("conversion should run")
	}
	if math.Abs(produced-5.5) > epsilon {
		t.Errorf("produced = %v, want 5.5", produced)
	}
	if math.Abs(l.TotalMaterials()-499) > epsilon {
		t.Errorf("TotalMaterials = %v, want 499", l.TotalMaterials())
	}
	if math.Abs(l.TotalEnergy()-1005.5) > epsilon {
		t.Errorf("TotalEnergy = %v, want 1005.5", l.TotalEnergy())
	}
}

func TestConversionAtomicDebitCredit(t *testing.T) {
	c := NewConverter(config.ConversionConfig{EnergyPerMaterial: 5, BonusPercent: 0})
	l := newSystemsLedger()

	c.Step(l, 42, 2.0, 0.5)
	txs := l.RecentTransactions(2)
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].Action != "conversion" || txs[1].Action != "conversion" {
		t.Errorf("tx tags = %q/%q, want conversion/conversion", txs[0].Action, txs[1].Action)
	}
	if txs[0].Resource != "materials" || txs[1].Resource != "energy" {
		t.Errorf("tx order = %s then %s, want materials debit then energy credit",
			txs[0].Resource, txs[1].Resource)
	}
}

func TestConversionSilentBackpressure(t *testing.T) {
	c := NewConverter(config.ConversionConfig{EnergyPerMaterial: 5, BonusPercent: 0})
	l := newSystemsLedger()

	// Drain the materials pool completely.
	l.ConsumeMaterials(1, 500, "conversion")
	txBefore := l.TransactionCount()
	energyBefore := l.TotalEnergy()

	produced, ok := c.Step(l, 42, 2.0, 0.5)
	if ok || produced != 0 {
		t.Errorf("starved conversion = (%v,%v), want (0,false)", produced, ok)
	}
	// Backpressure is silent: no failed transaction in the audit trail.
	if l.TransactionCount() != txBefore {
		t.Error("starved conversion must not append transactions")
	}
	if l.TotalEnergy() != energyBefore {
		t.Errorf("TotalEnergy changed to %v", l.TotalEnergy())
	}
}

func TestConversionZeroRateIsNoop(t *testing.T) {
	c := NewConverter(config.ConversionConfig{EnergyPerMaterial: 5})
	l := newSystemsLedger()
	if produced, ok := c.Step(l, 42, 0, 0.5); ok || produced != 0 {
		t.Errorf("zero-rate conversion = (%v,%v), want (0,false)", produced, ok)
	}
}

func TestConversionPartialPoolDoesNotRun(t *testing.T) {
	c := NewConverter(config.ConversionConfig{EnergyPerMaterial: 5})
	l := newSystemsLedger()
	l.ConsumeMaterials(1, 499.5, "conversion") // 0.5 left, need 1.0

	if _, ok := c.Step(l, 42, 2.0, 0.5); ok {
		t.Error("partial availability must not convert (all or nothing)")
	}
	if math.Abs(l.TotalMaterials()-0.5) > epsilon {
		t.Errorf("TotalMaterials = %v, want 0.5 (untouched)", l.TotalMaterials())
	}
}
