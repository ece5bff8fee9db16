package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/emberworks/ember/config"
	"github.com/emberworks/ember/ledger"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir             string
	telemetryFile   *os.File
	transactionFile *os.File

	telemetryHeaderWritten   bool
	transactionHeaderWritten bool
}

// NewOutputManager creates an output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	telemetryPath := filepath.Join(dir, "telemetry.csv")
	f, err := os.Create(telemetryPath)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	transactionPath := filepath.Join(dir, "transactions.csv")
	f, err = os.Create(transactionPath)
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating transactions.csv: %w", err)
	}
	om.transactionFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.telemetryHeaderWritten {
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}

	return nil
}

// WriteTransactions appends ledger transactions to transactions.csv.
func (om *OutputManager) WriteTransactions(txs []ledger.Transaction) error {
	if om == nil || len(txs) == 0 {
		return nil
	}

	if !om.transactionHeaderWritten {
		if err := gocsv.Marshal(txs, om.transactionFile); err != nil {
			return fmt.Errorf("writing transactions: %w", err)
		}
		om.transactionHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(txs, om.transactionFile); err != nil {
			return fmt.Errorf("writing transactions: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.telemetryFile != nil {
		if err := om.telemetryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.transactionFile != nil {
		if err := om.transactionFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
