package config

import (
	"fmt"
	"os"
	"path/filepath"

	"burnsim/internal/apperr"
	"burnsim/internal/forecast"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// SimulationConfig holds the defaults applied to requests that leave a
// setting unset.
type SimulationConfig struct {
	HorizonDays     int     `env:"BURNSIM_HORIZON_DAYS" envDefault:"90"`
	EnsembleSize    int     `env:"BURNSIM_ENSEMBLE_SIZE" envDefault:"50"`
	NoiseIndividual float64 `env:"BURNSIM_NOISE_INDIVIDUAL" envDefault:"0.5"`
	NoisePopulation float64 `env:"BURNSIM_NOISE_POPULATION" envDefault:"0.3"`
	SmoothingFactor float64 `env:"BURNSIM_SMOOTHING" envDefault:"0"`
	Cyclical        bool    `env:"BURNSIM_CYCLICAL" envDefault:"true"`
	HourlyRate      float64 `env:"BURNSIM_HOURLY_RATE" envDefault:"50"`
	RecentCheckIns  int     `env:"BURNSIM_RECENT_CHECKINS" envDefault:"7"`
	// Workers bounds ensemble parallelism; 0 uses every available CPU.
	Workers int `env:"BURNSIM_WORKERS" envDefault:"0"`
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath   string `env:"DATA_PATH"`
	LogDir     string `env:"LOGS_FOLDER"`
	Simulation SimulationConfig

	// EnvFiles lists the .env files Load read, in load order.
	EnvFiles []string
}

// Load loads the configuration from .env files and environment variables.
// It runs before logging is initialised and does not log; the caller
// reports EnvFiles once the logger writes to LogDir.
func Load() (*AppConfig, error) {
	var loaded []string

	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			loaded = append(loaded, envPath)
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err == nil {
		loaded = append(loaded, ".env")
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	cfg.EnvFiles = loaded
	cfg.resolvePaths(exeDir)
	return cfg, nil
}

// resolvePaths fills DataPath and LogDir. The log directory defaults to
// DATA_PATH/logs; the logger creates it.
func (c *AppConfig) resolvePaths(exeDir string) {
	if c.DataPath == "" {
		if exeDir != "" {
			c.DataPath = exeDir
		} else {
			c.DataPath = "."
		}
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.DataPath, "logs")
	}
}

func parse() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Simulation.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s SimulationConfig) validate() error {
	switch {
	case s.HorizonDays < 1 || s.HorizonDays > forecast.MaxHorizonDays:
		return apperr.Configuration("BURNSIM_HORIZON_DAYS must be within [1, %d], got %d", forecast.MaxHorizonDays, s.HorizonDays)
	case s.EnsembleSize < 1 || s.EnsembleSize > forecast.MaxEnsembleSize:
		return apperr.Configuration("BURNSIM_ENSEMBLE_SIZE must be within [1, %d], got %d", forecast.MaxEnsembleSize, s.EnsembleSize)
	case s.NoiseIndividual < 0 || s.NoisePopulation < 0:
		return apperr.Configuration("noise magnitudes must not be negative")
	case s.SmoothingFactor < 0 || s.SmoothingFactor >= 1:
		return apperr.Configuration("BURNSIM_SMOOTHING must be within [0, 1), got %v", s.SmoothingFactor)
	case s.HourlyRate < 0:
		return apperr.Configuration("BURNSIM_HOURLY_RATE must not be negative, got %v", s.HourlyRate)
	case s.RecentCheckIns < 1:
		return apperr.Configuration("BURNSIM_RECENT_CHECKINS must be positive, got %d", s.RecentCheckIns)
	case s.Workers < 0:
		return apperr.Configuration("BURNSIM_WORKERS must not be negative, got %d", s.Workers)
	}
	return nil
}

// Defaults converts the simulation settings for the forecaster.
func (c *AppConfig) Defaults() forecast.Defaults {
	s := c.Simulation
	return forecast.Defaults{
		HorizonDays:     s.HorizonDays,
		EnsembleSize:    s.EnsembleSize,
		NoiseIndividual: s.NoiseIndividual,
		NoisePopulation: s.NoisePopulation,
		SmoothingFactor: s.SmoothingFactor,
		Cyclical:        s.Cyclical,
		HourlyRate:      s.HourlyRate,
		RecentCheckIns:  s.RecentCheckIns,
		Workers:         s.Workers,
	}
}
