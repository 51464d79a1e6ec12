package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// config is cellsctl's optional on-disk configuration: a find-upward-
// from-cwd search for a TOML file. Flags passed on the command line
// always override whatever a config file sets.
type config struct {
	Demo     demoConfig      `toml:"demo"`
	Bench    benchConfigFile `toml:"bench"`
	Snapshot snapshotConfig  `toml:"snapshot"`
}

type demoConfig struct {
	Scenario string `toml:"scenario"`
}

type benchConfigFile struct {
	Iterations int `toml:"iterations"`
}

type snapshotConfig struct {
	OutputDir string `toml:"output_dir"`
}

func defaultConfig() config {
	return config{
		Demo:     demoConfig{Scenario: "all"},
		Bench:    benchConfigFile{Iterations: 1000},
		Snapshot: snapshotConfig{OutputDir: "."},
	}
}

// loadConfig reads path if non-empty, or searches upward from the
// current directory for cellsctl.toml otherwise. A missing file (in the
// search case) is not an error — defaultConfig is returned as-is.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		found, ok, err := findConfigUpward(".")
		if err != nil {
			return cfg, err
		}
		if !ok {
			return cfg, nil
		}
		path = found
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func findConfigUpward(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, "cellsctl.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
