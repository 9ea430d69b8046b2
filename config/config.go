package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration. It is loaded once at startup
// and passed into constructors; nothing outside this package reads the
// process environment.
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP server configuration
	HTTPAddr string

	// Bankroll configuration
	StartingBankroll decimal.Decimal

	// Stake sizing (risk controls for suggested stakes)
	KellyMultiplier   float64 // fractional-Kelly damping, e.g. 0.5
	MaxStakePct       float64 // hard cap as a fraction of bankroll
	StakeRoundingUnit decimal.Decimal

	// Environment: "development", "production" or "test"
	Environment string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		Environment: os.Getenv("ENVIRONMENT"),

		// Defaults
		StartingBankroll:  decimal.NewFromInt(1000),
		KellyMultiplier:   0.5,
		MaxStakePct:       0.05,
		StakeRoundingUnit: decimal.NewFromInt(1),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("STARTING_BANKROLL"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTING_BANKROLL %q: %w", v, err)
		}
		cfg.StartingBankroll = parsed
	}
	if v := os.Getenv("KELLY_MULTIPLIER"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return nil, fmt.Errorf("invalid KELLY_MULTIPLIER %q: must be in [0,1]", v)
		}
		cfg.KellyMultiplier = parsed
	}
	if v := os.Getenv("MAX_STAKE_PCT"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			return nil, fmt.Errorf("invalid MAX_STAKE_PCT %q: must be in (0,1]", v)
		}
		cfg.MaxStakePct = parsed
	}
	if v := os.Getenv("STAKE_ROUNDING_UNIT"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("invalid STAKE_ROUNDING_UNIT %q: must be positive", v)
		}
		cfg.StakeRoundingUnit = parsed
	}

	if cfg.Environment != "test" {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return cfg, nil
}
