// Package config loads the tunables for the store decorators and for sync,
// from YAML, matching the teacher's convention of keeping operational knobs
// in a small typed config struct rather than scattering constants.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable this module exposes. Zero value is valid and
// is filled in by Defaults().
type Config struct {
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`

	Retry struct {
		MaxElapsed time.Duration `yaml:"max_elapsed"`
		MaxRetries int           `yaml:"max_retries"`
	} `yaml:"retry"`

	Sync struct {
		// FanOut bounds the number of concurrent goroutines PullAll spawns
		// across independent roots.
		FanOut int `yaml:"fan_out"`
	} `yaml:"sync"`
}

// Defaults returns a Config with the reference implementation's defaults.
func Defaults() Config {
	var c Config
	c.Cache.Size = 4096
	c.Retry.MaxElapsed = 30 * time.Second
	c.Retry.MaxRetries = 5
	c.Sync.FanOut = 8
	return c
}

// Load reads and parses a YAML config file, filling any field the file
// omits with the value from Defaults().
func Load(path string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
