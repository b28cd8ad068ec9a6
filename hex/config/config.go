// Package config defines the engine's YAML-loaded tuning knobs
// (SPEC_FULL §1.3), modeled on the teacher's engine.go Config
// zero-value philosophy: every field has a sane default, and an absent
// YAML document produces a usable Config.
package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the top-level engine configuration.
type Config struct {
	// Heuristic selects the eval-graph construction strategy: "trivial",
	// "old", "easy" (default), or "fromfile".
	Heuristic string `yaml:"heuristic"`

	// FromFileAssignment is only read when Heuristic == "fromfile": the
	// component-to-unit assignment array of evalgraph.FromFile.
	FromFileAssignment []int `yaml:"from_file_assignment,omitempty"`

	// Backend selects the registered backend.Backend implementation by
	// name; "internal" (the built-in CDNL solver) is the default.
	Backend string `yaml:"backend"`

	// BackendConfig is passed verbatim to backend.Open.
	BackendConfig map[string]string `yaml:"backend_config,omitempty"`

	// OracleCachePath is a boltdb file path for oracle.OpenCache. No code
	// in this module reads it; the engine opens no oracle cache itself.
	OracleCachePath string `yaml:"oracle_cache_path,omitempty"`

	// OracleTimeoutSeconds is a per-call limit in seconds for
	// PluginAtom.Retrieve. No code in this module reads it or enforces a
	// limit on Retrieve.
	OracleTimeoutSeconds int `yaml:"oracle_timeout_seconds"`

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// Default returns the engine's zero-configuration defaults.
func Default() Config {
	return Config{
		Heuristic:            "easy",
		Backend:              "internal",
		OracleTimeoutSeconds: 30,
		LogLevel:             "info",
	}
}

// Load reads and unmarshals a YAML config file, filling any field the
// file omits from Default().
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
