package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Diarizer.FrameMs != 32 || cfg.Diarizer.HopMs != 16 {
		t.Errorf("diarizer frame/hop = %d/%d, want 32/16", cfg.Diarizer.FrameMs, cfg.Diarizer.HopMs)
	}
	if cfg.Balance.BalancedMin != 35 || cfg.Balance.BalancedMax != 55 {
		t.Errorf("balance window = [%.0f, %.0f], want [35, 55]", cfg.Balance.BalancedMin, cfg.Balance.BalancedMax)
	}
	if len(cfg.Roles.OperatorCues) == 0 || len(cfg.Roles.ClientCues) == 0 {
		t.Error("default cue lists are empty")
	}
	if cfg.Services.Transcription.URL != "" {
		t.Errorf("default transcription URL = %q, want unset", cfg.Services.Transcription.URL)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callaudit.yaml")
	content := `
logging:
  level: debug
diarizer:
  energy_floor: 0.1
roles:
  first_speaker_bias: 0.5
services:
  transcription:
    url: http://asr:9000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Overridden values
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Diarizer.EnergyFloor != 0.1 {
		t.Errorf("energy floor = %.2f, want 0.10", cfg.Diarizer.EnergyFloor)
	}
	if cfg.Roles.FirstSpeakerBias != 0.5 {
		t.Errorf("first speaker bias = %.2f, want 0.50", cfg.Roles.FirstSpeakerBias)
	}
	if cfg.Services.Transcription.URL != "http://asr:9000" {
		t.Errorf("transcription URL = %q", cfg.Services.Transcription.URL)
	}

	// Untouched values keep their defaults
	if cfg.Diarizer.FrameMs != 32 {
		t.Errorf("frame ms = %d, want default 32", cfg.Diarizer.FrameMs)
	}
	if cfg.Balance.BalancedMin != 35 {
		t.Errorf("balanced min = %.0f, want default 35", cfg.Balance.BalancedMin)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() succeeded for a missing explicit path")
	}
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("logging: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded for malformed YAML")
	}
}
