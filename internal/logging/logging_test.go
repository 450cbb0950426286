package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	if err := Init(Options{Dir: dir, Verbose: true, Quiet: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", zerolog.GlobalLevel())
	}
	log.Debug().Str("check", "ok").Msg("logging test entry")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"check":"ok"`) {
		t.Errorf("log file does not contain the entry: %s", data)
	}
}

func TestResolveDir(t *testing.T) {
	t.Setenv("LOGS_FOLDER", "/srv/logs")
	if got := resolveDir("/tmp/x", "/opt/bin/burnsim", nil); got != "/tmp/x" {
		t.Errorf("override ignored: %q", got)
	}
	if got := resolveDir("", "/opt/bin/burnsim", nil); got != "/srv/logs" {
		t.Errorf("LOGS_FOLDER ignored: %q", got)
	}
	t.Setenv("LOGS_FOLDER", "")
	if got := resolveDir("", "/opt/bin/burnsim", nil); got != filepath.Join("/opt/bin", "logs") {
		t.Errorf("binary-relative dir = %q", got)
	}
}
