package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	CatalogPath         string
	Iterations          int
	ConfidenceLevel     float64
	Workers             int
	Seed                int64
	AcceptableRisk      float64
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CatalogPath:         getEnv("CATALOG_PATH", ""),
		Iterations:          getEnvInt("MC_ITERATIONS", 10000),
		ConfidenceLevel:     getEnvFloat("MC_CONFIDENCE", 90),
		Workers:             getEnvInt("MC_WORKERS", runtime.NumCPU()),
		Seed:                int64(getEnvInt("MC_SEED", 0)),
		AcceptableRisk:      getEnvFloat("ACCEPTABLE_RISK", 10),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *AppConfig) Validate() error {
	switch {
	case c.Iterations <= 0:
		return apperr.Configuration("MC_ITERATIONS", "must be positive, got %d", c.Iterations)
	case c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 100:
		return apperr.Configuration("MC_CONFIDENCE", "must be between 0 and 100, got %g", c.ConfidenceLevel)
	case c.Workers <= 0:
		return apperr.Configuration("MC_WORKERS", "must be positive, got %d", c.Workers)
	case c.AcceptableRisk < 0 || c.AcceptableRisk > 100:
		return apperr.Configuration("ACCEPTABLE_RISK", "must be between 0 and 100, got %g", c.AcceptableRisk)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
