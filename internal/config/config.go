package config

import (
	"os"
	"strconv"

	"statkit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Data      DataConfig
	Evaluator EvaluatorConfig
}

// DatabaseConfig holds database connection settings. An empty URL means no
// persistence: evaluation runs are kept in memory only.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds data source settings for the CLI battery
type DataConfig struct {
	ExcelFile string
}

// EvaluatorConfig holds tuning knobs for the statistic evaluator. The exact
// limits are the auto-mode crossover points between exact combinatorial
// p-values and asymptotic approximations; they are empirical tuning, not a
// guarantee, which is why they live in configuration.
type EvaluatorConfig struct {
	Workers               int
	KendallExactLimit     int
	MannWhitneyExactLimit int
	KSExactLimit          int
	// KSExactHardLimit caps explicit exact requests: past it the lattice
	// walk is downgraded to the asymptotic approximation.
	KSExactHardLimit int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:   ServerConfig{Port: envOr("PORT", "8080")},
		Data:     DataConfig{ExcelFile: os.Getenv("EXCEL_FILE")},
		Evaluator: EvaluatorConfig{
			Workers:               4,
			KendallExactLimit:     33,
			MannWhitneyExactLimit: 25,
			KSExactLimit:          10000,
			KSExactHardLimit:      25000000,
		},
	}

	if err := loadIntEnv("EVALUATOR_WORKERS", &cfg.Evaluator.Workers); err != nil {
		return nil, err
	}
	if err := loadIntEnv("KENDALL_EXACT_LIMIT", &cfg.Evaluator.KendallExactLimit); err != nil {
		return nil, err
	}
	if err := loadIntEnv("MANNWHITNEY_EXACT_LIMIT", &cfg.Evaluator.MannWhitneyExactLimit); err != nil {
		return nil, err
	}
	if err := loadIntEnv("KS_EXACT_LIMIT", &cfg.Evaluator.KSExactLimit); err != nil {
		return nil, err
	}
	if err := loadIntEnv("KS_EXACT_HARD_LIMIT", &cfg.Evaluator.KSExactHardLimit); err != nil {
		return nil, err
	}
	if cfg.Evaluator.Workers < 1 {
		return nil, errors.New("CONFIG_INVALID", "EVALUATOR_WORKERS must be at least 1")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadIntEnv(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}
	*dst = n
	return nil
}
