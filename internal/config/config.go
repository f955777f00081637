// Package config loads the evaluator's run-time configuration, cascading
// from a YAML file, then environment variables (optionally sourced from a
// .env file), then command-line flags, matching the highest-precedence-last
// convention the CLI layer (cmd/grace) applies when building the final
// EvaluatorConfig.
package config

import (
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"
)

// EvaluatorConfig holds the knobs an embedder or the CLI can set before
// constructing an evaluator.Evaluator, analogous to the teacher's
// evaluator.Config/DefaultConfig().
type EvaluatorConfig struct {
	// MaxRecursionDepth bounds user-method/block invocation nesting. It is
	// an embedder-level safety net: internal/evaluator enforces it when
	// built with NewWithDepthLimit, which the CLI does with this value;
	// evaluator.New applies no limit.
	MaxRecursionDepth int `yaml:"max_recursion_depth"`

	// StartPaused, when true, makes `grace debug` begin in step mode
	// (the Debugger's default); when false the session starts in
	// continue mode and only stops at explicit breakpoints.
	StartPaused bool `yaml:"start_paused"`

	// Breakpoints is a list of source line numbers to pre-populate before
	// the debug session begins, so `.gracerc.yaml` can declare a standing
	// set of breakpoints for repeated debug runs.
	Breakpoints []int `yaml:"breakpoints"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a setting.
func DefaultConfig() EvaluatorConfig {
	return EvaluatorConfig{
		MaxRecursionDepth: 1000,
		StartPaused:       true,
	}
}

// LoadFile reads and parses a `.gracerc.yaml`-shaped file at path, merging
// it over base. A missing file is not an error: it simply leaves base
// unchanged, since the YAML file is the lowest-precedence, optional layer
// of the cascade.
func LoadFile(path string, base EvaluatorConfig) (EvaluatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, err
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// LoadEnv applies GRACE_* environment variables over cfg, optionally first
// loading them from an envFile (via godotenv) if one is present. Only
// variables that are actually set override their corresponding field, so
// this layer never clobbers a value the YAML file already supplied unless
// the environment explicitly names it.
func LoadEnv(envFile string, cfg EvaluatorConfig) EvaluatorConfig {
	if envFile != "" {
		// A missing .env file is not fatal; it is an optional convenience
		// layer, same as the YAML file above.
		_ = godotenv.Load(envFile)
	}

	if v, ok := os.LookupEnv("GRACE_MAX_RECURSION"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRecursionDepth = n
		}
	}
	if v, ok := os.LookupEnv("GRACE_START_PAUSED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StartPaused = b
		}
	}
	return cfg
}

// LoadJSONOverride applies inline JSON overrides (the `--config-json`
// flag's value) on top of cfg, read with gjson rather than the standard
// library's encoding/json since only a handful of top-level keys are ever
// read and a full unmarshal into EvaluatorConfig would silently accept
// typos in field names.
func LoadJSONOverride(raw string, cfg EvaluatorConfig) EvaluatorConfig {
	if raw == "" || !gjson.Valid(raw) {
		return cfg
	}
	result := gjson.Parse(raw)
	if v := result.Get("max_recursion_depth"); v.Exists() {
		cfg.MaxRecursionDepth = int(v.Int())
	}
	if v := result.Get("start_paused"); v.Exists() {
		cfg.StartPaused = v.Bool()
	}
	if v := result.Get("breakpoints"); v.Exists() && v.IsArray() {
		cfg.Breakpoints = nil
		for _, b := range v.Array() {
			cfg.Breakpoints = append(cfg.Breakpoints, int(b.Int()))
		}
	}
	return cfg
}
