// Package config loads isoline run settings from Hjson files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hjson/hjson-go"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("config: invalid")

// Config holds the settings for one extraction run.
type Config struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Scene     string `json:"scene"`
	ScenePath string `json:"scene-path"`
	Parallel  bool   `json:"parallel"`
	Workers   int    `json:"workers"`
	Output    string `json:"output"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Width:  64,
		Height: 64,
	}
}

// Load reads and parses the Hjson file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	conf, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

// Parse decodes Hjson data on top of Default. Keys missing from data keep
// their default values.
func Parse(data []byte) (Config, error) {
	conf := Default()

	var mdat map[string]interface{}
	if err := hjson.Unmarshal(data, &mdat); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	bytes, err := json.Marshal(mdat)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(bytes, &conf); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return conf, nil
}

// Validate reports the first problem with c, wrapping ErrInvalid.
func (c Config) Validate() error {
	switch {
	case c.Width < 2 || c.Height < 2:
		return fmt.Errorf("%w: grid must be at least 2x2, got %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Workers)
	case c.Scene != "" && c.ScenePath != "":
		return fmt.Errorf("%w: scene and scene-path are mutually exclusive", ErrInvalid)
	case c.Scene == "" && c.ScenePath == "":
		return fmt.Errorf("%w: one of scene or scene-path is required", ErrInvalid)
	}
	return nil
}

// Source returns the scene script, reading ScenePath when no inline
// scene is set.
func (c Config) Source() (string, error) {
	if c.Scene != "" {
		return c.Scene, nil
	}
	if c.ScenePath == "" {
		return "", fmt.Errorf("%w: no scene configured", ErrInvalid)
	}
	data, err := os.ReadFile(c.ScenePath)
	if err != nil {
		return "", fmt.Errorf("config: scene: %w", err)
	}
	return string(data), nil
}
