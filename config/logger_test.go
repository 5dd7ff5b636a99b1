package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLoggingConfig_PrepareFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cssw.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden message")
	log.Info("visible message", zap.String("file", "a.css"))
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("unable to read log: %v", err)
	}
	if !strings.Contains(string(data), "visible message") {
		t.Errorf("log does not contain info entry:\n%s", data)
	}
	if strings.Contains(string(data), "hidden message") {
		t.Errorf("log contains debug entry at normal level:\n%s", data)
	}
	if !strings.Contains(string(data), "cssw") {
		t.Errorf("log entries are not named after the program:\n%s", data)
	}
}

func TestLoggingConfig_PrepareWithReport(t *testing.T) {
	dir := t.TempDir()
	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer rpt.Close()

	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none", Destination: filepath.Join(dir, "cssw.log")},
	}
	log, err := conf.Prepare(rpt)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("debug is forced by report")
	_ = log.Sync()

	if _, ok := rpt.entries["final.log"]; !ok {
		t.Error("report does not reference log file")
	}
	data, err := os.ReadFile(filepath.Join(dir, "cssw.log"))
	if err != nil {
		t.Fatalf("unable to read log: %v", err)
	}
	if !strings.Contains(string(data), "debug is forced by report") {
		t.Errorf("debug entry missing:\n%s", data)
	}
}
