package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Settings holds all application configuration.
type Settings struct {
	Data struct {
		EventsFile  string `yaml:"events_file"`
		CandlesFile string `yaml:"candles_file"`
		FXFile      string `yaml:"fx_file"`
	} `yaml:"data"`
	Loan struct {
		APY         string `yaml:"apy"`          // yearly interest in percent, e.g. "12.0"
		DefaultFX   string `yaml:"default_fx"`   // CAD/USD rate used before the first observation
		TargetRatio string `yaml:"target_ratio"` // collateralization target for rebalance hints
		FeeRate     string `yaml:"fee_rate"`     // flat fee fraction charged on a rebalance
	} `yaml:"loan"`
	Schedule struct {
		ServeCron string `yaml:"serve_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	apy, defaultFX, targetRatio, feeRate decimal.Decimal
}

// LoadSettings reads settings from a YAML file, then applies environment
// variable overrides and defaults. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CDP_EVENTS_FILE"); v != "" {
		s.Data.EventsFile = v
	}
	if v := os.Getenv("CDP_CANDLES_FILE"); v != "" {
		s.Data.CandlesFile = v
	}
	if v := os.Getenv("CDP_FX_FILE"); v != "" {
		s.Data.FXFile = v
	}
	if v := os.Getenv("CDP_APY"); v != "" {
		s.Loan.APY = v
	}
	if v := os.Getenv("CDP_SERVE_CRON"); v != "" {
		s.Schedule.ServeCron = v
	}
	if v := os.Getenv("CDP_SQLITE_PATH"); v != "" {
		s.Database.SQLitePath = v
	}

	// Defaults
	if s.Data.EventsFile == "" {
		s.Data.EventsFile = "events.jsonl"
	}
	if s.Data.CandlesFile == "" {
		s.Data.CandlesFile = "candles.jsonl"
	}
	if s.Data.FXFile == "" {
		s.Data.FXFile = "fxrates.jsonl"
	}
	if s.Loan.APY == "" {
		s.Loan.APY = "12.0"
	}
	if s.Loan.DefaultFX == "" {
		s.Loan.DefaultFX = "0.75"
	}
	if s.Loan.TargetRatio == "" {
		s.Loan.TargetRatio = "2.0"
	}
	if s.Loan.FeeRate == "" {
		s.Loan.FeeRate = "0.005"
	}
	if s.Schedule.ServeCron == "" {
		// every 5 minutes
		s.Schedule.ServeCron = "0 */5 * * * *"
	}

	for _, p := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"loan.apy", s.Loan.APY, &s.apy},
		{"loan.default_fx", s.Loan.DefaultFX, &s.defaultFX},
		{"loan.target_ratio", s.Loan.TargetRatio, &s.targetRatio},
		{"loan.fee_rate", s.Loan.FeeRate, &s.feeRate},
	} {
		d, err := decimal.NewFromString(p.value)
		if err != nil {
			return nil, fmt.Errorf("config %s: %q is not a number", p.name, p.value)
		}
		*p.dst = d
	}
	if !s.apy.IsPositive() {
		return nil, fmt.Errorf("config loan.apy must be positive, got %s", s.Loan.APY)
	}
	if !s.defaultFX.IsPositive() {
		return nil, fmt.Errorf("config loan.default_fx must be positive, got %s", s.Loan.DefaultFX)
	}

	return s, nil
}

// APY returns the configured yearly rate, in percent.
func (s *Settings) APY() decimal.Decimal { return s.apy }

// DefaultFX returns the CAD/USD rate used before the first observation.
func (s *Settings) DefaultFX() decimal.Decimal { return s.defaultFX }

// TargetRatio returns the collateralization target for rebalance hints.
func (s *Settings) TargetRatio() decimal.Decimal { return s.targetRatio }

// FeeRate returns the flat fee fraction charged on a rebalance.
func (s *Settings) FeeRate() decimal.Decimal { return s.feeRate }
