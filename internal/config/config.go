// Package config loads otter.yaml, the project/build manifest a
// production compiler driver reads settings from rather than only
// accepting flags: target triple, IR optimization level, the bundled
// standard library's on-disk override path, and whether a build is a
// release build.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the parsed shape of otter.yaml. Every field has a usable
// zero value (Load never requires a manifest to exist), matching
// internal/irgen.Options/internal/resolver's own "sane defaults, config
// only overrides" convention.
type Config struct {
	// Target is the triple the emitted IR is intended for (e.g.
	// "x86_64-unknown-linux-gnu"); the core IR emitter itself is target-
	// agnostic, but a downstream linker step needs this to pick the
	// right backend.
	Target string `yaml:"target"`
	// OptLevel selects internal/irgen.Options' finally-lowering
	// strategy: 0 duplicates cleanup code per exit edge, >=1 shares one
	// cleanup block behind a selector.
	OptLevel int `yaml:"opt_level"`
	// StdlibPath, if set, is checked before the binary's embedded
	// standard library sources (internal/stdlib.Loader's Root field) —
	// lets a local checkout iterate on bundled core/math/io/time/json/
	// task/runtime modules without rebuilding the compiler.
	StdlibPath string `yaml:"stdlib_path"`
	// ReleaseMode makes Load raise OptLevel to 1 when it is left at 0;
	// it has no other effect.
	ReleaseMode bool `yaml:"release"`
}

// Default returns the Config a build uses when no otter.yaml is present.
func Default() *Config {
	return &Config{Target: "x86_64-unknown-linux-gnu", OptLevel: 0}
}

// Load reads and parses the otter.yaml manifest at path. A missing file
// is not an error — it returns Default() unchanged, matching the
// manifest's own "every field optional" design.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ReleaseMode && cfg.OptLevel == 0 {
		cfg.OptLevel = 1
	}
	return cfg, nil
}
