// Package config loads the analysis configuration from YAML. Every
// heuristic parameter (energy thresholds, cue phrases, balance window) is
// explicit configuration so deployments can localize and tests can pin them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/daialabs/callaudit/internal/diarize"
	"github.com/daialabs/callaudit/internal/speaker"
)

// Service points at an external collaborator.
type Service struct {
	URL string `yaml:"url"`
}

// Services lists the collaborators the pipeline consumes.
type Services struct {
	Transcription Service `yaml:"transcription"`
	Sentiment     Service `yaml:"sentiment"`
}

// Logging controls the logrus sink. The TUI owns the terminal, so logs go
// to a file by default.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Root is the full configuration tree.
type Root struct {
	Logging  Logging               `yaml:"logging"`
	Diarizer diarize.Config        `yaml:"diarizer"`
	Roles    speaker.RoleConfig    `yaml:"roles"`
	Balance  speaker.BalanceConfig `yaml:"balance"`
	Services Services              `yaml:"services"`
}

// Default returns the production defaults used when no file is given.
func Default() *Root {
	return &Root{
		Logging:  Logging{Level: "info", File: "callaudit.log"},
		Diarizer: diarize.DefaultConfig(),
		Roles:    speaker.DefaultRoleConfig(),
		Balance:  speaker.DefaultBalanceConfig(),
	}
}

// Load reads the YAML file at path, layered over the defaults. An empty
// path tries the conventional locations and falls back to pure defaults
// when none exists.
func Load(path string) (*Root, error) {
	cfg := Default()

	if path == "" {
		for _, guess := range []string{"callaudit.yaml", filepath.Join("config", "callaudit.yaml")} {
			if _, err := os.Stat(guess); err == nil {
				path = guess
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
