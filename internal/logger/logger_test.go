package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uwu.log")
	log, closeLog, err := New(Options{Debug: true, File: path})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hello from test")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file: %q", data)
	}
}

func TestDebugOffSkipsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uwu.log")
	log, closeLog, err := New(Options{File: path})
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be disabled")
	}
	closeLog()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("log file should not be created, stat: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("UWU_TEST_DEBUG", "true")
	if opts := FromEnv("UWU_TEST_DEBUG", "x.log"); !opts.Debug || opts.File != "x.log" {
		t.Errorf("got %+v", opts)
	}
	t.Setenv("UWU_TEST_DEBUG", "")
	if FromEnv("UWU_TEST_DEBUG", "").Debug {
		t.Error("empty value should disable debug")
	}
}
