// Package config loads the scheduler's tunables from an optional TOML
// file, layered underneath the CLI flags that always take precedence.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Defaults match the constants spec.md hardcodes (§3's TICKS_MS, §4.E.3's
// TIME_SLICE, §4.E.4's per-level quanta).
const (
	DefaultSocketPath = "/tmp/scheduler.sock"
	DefaultTickMs     = 10
	DefaultRRQuantumMs = 500
)

// DefaultMLFQQuantaMs are Q0, Q1, Q2's quanta in milliseconds.
var DefaultMLFQQuantaMs = [3]uint32{500, 1000, 2000}

// Config is every tunable an operator can override without recompiling.
type Config struct {
	SocketPath   string    `toml:"socket_path"`
	TickMs       uint32    `toml:"tick_ms"`
	RRQuantumMs  uint32    `toml:"rr_quantum_ms"`
	MLFQQuantaMs [3]uint32 `toml:"mlfq_quanta_ms"`
}

// Default returns the compiled-in configuration, matching the original
// source's hardcoded constants.
func Default() Config {
	return Config{
		SocketPath:   DefaultSocketPath,
		TickMs:       DefaultTickMs,
		RRQuantumMs:  DefaultRRQuantumMs,
		MLFQQuantaMs: DefaultMLFQQuantaMs,
	}
}

// Load reads path and overlays any fields it sets onto Default(). A path
// of "" returns the defaults unchanged; that is the expected case when
// --config is not passed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	// Decode into the defaulted struct so a config file that only sets
	// socket_path leaves tick_ms/quanta at their compiled-in values.
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return cfg, nil
}
