// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotating log file written under the log directory.
const FileName = "burnsim.log"

// Options controls Init.
type Options struct {
	Verbose bool
	// Dir is the log directory, normally config.AppConfig.LogDir. Empty
	// falls back to LOGS_FOLDER, then to logs/ next to the binary.
	Dir string
	// Quiet drops the console sink; only the file receives entries.
	Quiet bool
}

// Init initializes the global logger with a console sink on stderr and a
// rotating file. Stdout is never written so it stays free for MCP traffic
// and command output.
func Init(opts Options) error {
	exePath, exeErr := os.Executable()

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logDir := resolveDir(opts.Dir, exePath, exeErr)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}

	writers := []io.Writer{fileWriter}
	if !opts.Quiet {
		writers = append(writers, consoleWriter(os.Stderr))
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
	return nil
}

func resolveDir(override, exePath string, exeErr error) string {
	if override != "" {
		return override
	}
	if dir := os.Getenv("LOGS_FOLDER"); dir != "" {
		return dir
	}
	if exeErr == nil {
		return filepath.Join(filepath.Dir(exePath), "logs")
	}
	return "logs"
}

func consoleWriter(f *os.File) zerolog.ConsoleWriter {
	isTerminal := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}
}
