// Package config loads the small local configuration file the CLI
// consults for its default store path and principal id. Configuration
// file loading is named an external collaborator in spec.md §1, so this
// package is deliberately thin — it exists to give the CLI a single,
// testable place to resolve defaults, using the teacher's own TOML
// dependency rather than a hand-rolled parser.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the local configuration file's shape.
type Config struct {
	// StorePath is where the CLI persists its in-memory snapshot between
	// invocations (§6 CLI note). Empty means "in-memory only, no flush".
	StorePath string `toml:"store_path"`
	// DefaultActor is the principal id the CLI acts as when --actor is
	// not given on the command line.
	DefaultActor string `toml:"default_actor"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{DefaultActor: "default"}
}

// Load reads and parses the TOML file at path. A missing file is not an
// error — it returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
