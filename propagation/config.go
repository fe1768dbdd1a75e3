package propagation

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PropConfig holds batch propagation configuration.
type PropConfig struct {
	Workers int           `yaml:"workers"` // worker pool size (default: runtime.NumCPU())
	Step    time.Duration `yaml:"step"`    // keyframe interval (default: 5s)
	Horizon time.Duration `yaml:"horizon"` // propagation horizon (default: 600s)
}

// DefaultConfig returns the built-in batch configuration.
func DefaultConfig() PropConfig {
	return PropConfig{
		Workers: runtime.NumCPU(),
		Step:    5 * time.Second,
		Horizon: 600 * time.Second,
	}
}

// ConfigFromEnv builds a PropConfig from ORBITCORE_WORKERS,
// ORBITCORE_STEP and ORBITCORE_HORIZON, falling back to defaults for unset
// or malformed values.
func ConfigFromEnv() PropConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("ORBITCORE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("ORBITCORE_STEP"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Step = d
		}
	}
	if v := os.Getenv("ORBITCORE_HORIZON"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Horizon = d
		}
	}

	return cfg
}

// LoadConfig reads a PropConfig from a YAML file. Fields missing from the
// file keep their defaults.
func LoadConfig(path string) (PropConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read batch config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse batch config %s", path)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return cfg, nil
}

// LoadElements reads a YAML list of orbital element sets.
func LoadElements(path string) ([]OrbitalElements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read element file")
	}
	var els []OrbitalElements
	if err := yaml.Unmarshal(data, &els); err != nil {
		return nil, errors.Wrapf(err, "parse element file %s", path)
	}
	return els, nil
}
