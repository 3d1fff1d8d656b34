package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Data.EventsFile != "events.jsonl" {
		t.Errorf("EventsFile = %q, want events.jsonl", s.Data.EventsFile)
	}
	if got := s.APY().String(); got != "12" {
		t.Errorf("APY = %s, want 12", got)
	}
	if got := s.DefaultFX().String(); got != "0.75" {
		t.Errorf("DefaultFX = %s, want 0.75", got)
	}
	if s.Schedule.ServeCron == "" {
		t.Error("ServeCron default missing")
	}
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdp.yaml")
	content := `
data:
  events_file: my-events.jsonl
loan:
  apy: "10.5"
  target_ratio: "1.8"
database:
  sqlite_path: ticks.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CDP_APY", "9.25")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Data.EventsFile != "my-events.jsonl" {
		t.Errorf("EventsFile = %q, want my-events.jsonl", s.Data.EventsFile)
	}
	// env wins over the file
	if got := s.APY().String(); got != "9.25" {
		t.Errorf("APY = %s, want 9.25", got)
	}
	if got := s.TargetRatio().String(); got != "1.8" {
		t.Errorf("TargetRatio = %s, want 1.8", got)
	}
	if s.Database.SQLitePath != "ticks.db" {
		t.Errorf("SQLitePath = %q, want ticks.db", s.Database.SQLitePath)
	}
}

func TestLoadSettingsRejectsBadNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdp.yaml")
	if err := os.WriteFile(path, []byte("loan:\n  apy: \"twelve\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("non-numeric apy should fail")
	}

	if err := os.WriteFile(path, []byte("loan:\n  apy: \"-1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("negative apy should fail")
	}
}
