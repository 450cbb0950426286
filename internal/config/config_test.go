package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"burnsim/internal/apperr"
	"burnsim/internal/forecast"

	"github.com/joho/godotenv"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := cfg.Defaults()
	want := forecast.DefaultDefaults()
	if got != want {
		t.Errorf("defaults = %+v, want %+v", got, want)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("BURNSIM_HORIZON_DAYS", "180")
	t.Setenv("BURNSIM_ENSEMBLE_SIZE", "400")
	t.Setenv("BURNSIM_CYCLICAL", "false")
	t.Setenv("BURNSIM_WORKERS", "3")
	t.Setenv("LOGS_FOLDER", "/var/log/burnsim")

	cfg, err := parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Simulation.HorizonDays != 180 || cfg.Simulation.EnsembleSize != 400 {
		t.Errorf("sizes = %+v", cfg.Simulation)
	}
	if cfg.Simulation.Cyclical {
		t.Error("cyclical should be disabled")
	}
	if cfg.Simulation.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Simulation.Workers)
	}
	if cfg.LogDir != "/var/log/burnsim" {
		t.Errorf("log dir = %q", cfg.LogDir)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, key, value string
		config           bool
	}{
		{"not a number", "BURNSIM_HORIZON_DAYS", "ninety", false},
		{"horizon out of range", "BURNSIM_HORIZON_DAYS", "1000", true},
		{"empty ensemble", "BURNSIM_ENSEMBLE_SIZE", "0", true},
		{"smoothing of one", "BURNSIM_SMOOTHING", "1", true},
		{"negative rate", "BURNSIM_HOURLY_RATE", "-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.config && !apperr.IsCode(err, apperr.CodeConfiguration) {
				t.Errorf("expected CONFIGURATION, got %v", err)
			}
			if !tt.config && !strings.Contains(err.Error(), "parse env:") {
				t.Errorf("expected parse env prefix, got %v", err)
			}
		})
	}
}

func TestGodotenvQuoting(t *testing.T) {
	content := `BURNSIM_NOTE='value with "double quotes"'`
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `value with "double quotes"`
	if env["BURNSIM_NOTE"] != expected {
		t.Errorf("expected %q, got %q", expected, env["BURNSIM_NOTE"])
	}
}

func TestResolvePaths(t *testing.T) {
	tests := []struct {
		name     string
		cfg      AppConfig
		exeDir   string
		wantData string
		wantLogs string
	}{
		{"DataPathSet", AppConfig{DataPath: "/srv/burnsim"}, "/opt/bin", "/srv/burnsim", filepath.Join("/srv/burnsim", "logs")},
		{"BinaryDir", AppConfig{}, "/opt/bin", "/opt/bin", filepath.Join("/opt/bin", "logs")},
		{"NoBinaryDir", AppConfig{}, "", ".", "logs"},
		{"LogsFolderWins", AppConfig{DataPath: "/srv/burnsim", LogDir: "/var/log/burnsim"}, "/opt/bin", "/srv/burnsim", "/var/log/burnsim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.resolvePaths(tt.exeDir)
			if cfg.DataPath != tt.wantData || cfg.LogDir != tt.wantLogs {
				t.Errorf("paths = (%q, %q), want (%q, %q)", cfg.DataPath, cfg.LogDir, tt.wantData, tt.wantLogs)
			}
		})
	}
}

func TestLoadDoesNotCreateLogDir(t *testing.T) {
	t.Chdir(t.TempDir())
	data := t.TempDir()
	t.Setenv("DATA_PATH", data)
	t.Setenv("LOGS_FOLDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(data, "logs"); cfg.LogDir != want {
		t.Errorf("log dir = %q, want %q", cfg.LogDir, want)
	}
	if _, err := os.Stat(cfg.LogDir); !os.IsNotExist(err) {
		t.Errorf("Load should leave the log directory to the logger, stat err = %v", err)
	}
}
