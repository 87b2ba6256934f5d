package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a JSON and YAML friendly wrapper around time.Duration that
// accepts human readable strings such as "150ms" in configuration files while
// still allowing numeric representations when necessary.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration using the canonical string representation.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML scalars.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	switch node.Tag {
	case "!!null":
		*d = 0
		return nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("duration: decode float: %w", err)
		}
		*d = Duration(time.Duration(f))
		return nil
	case "!!str":
		return d.parse(node.Value)
	}
	return fmt.Errorf("duration: invalid value %q", node.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures the tunable parameters of the voxel engine.
type Config struct {
	Engine    EngineConfig    `json:"engine" yaml:"engine"`
	Landscape LandscapeConfig `json:"landscape" yaml:"landscape"`
	Meshing   MeshingConfig   `json:"meshing" yaml:"meshing"`
	Terrain   TerrainConfig   `json:"terrain" yaml:"terrain"`
}

type EngineConfig struct {
	ID       string   `json:"id" yaml:"id"`
	TickRate Duration `json:"tickRate" yaml:"tickRate"` // e.g. "16ms"
}

type LandscapeConfig struct {
	BeginOffset       int      `json:"beginOffset" yaml:"beginOffset"`             // cube offset from the observer chunk, per axis
	EndOffset         int      `json:"endOffset" yaml:"endOffset"`                 // inclusive
	SyncInterval      Duration `json:"syncInterval" yaml:"syncInterval"`           // periodic resync even without movement
	Paused            bool     `json:"paused" yaml:"paused"`                       // start frozen
	MaxLoadsPerSecond float64  `json:"maxLoadsPerSecond" yaml:"maxLoadsPerSecond"` // 0 disables throttling
	LoadBurst         int      `json:"loadBurst" yaml:"loadBurst"`
}

type MeshingConfig struct {
	Workers          int `json:"workers" yaml:"workers"`                   // 0 uses one worker per CPU
	MaxDirtyPerCycle int `json:"maxDirtyPerCycle" yaml:"maxDirtyPerCycle"` // 0 rebuilds every dirty chunk
}

type TerrainConfig struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Seed       int64   `json:"seed" yaml:"seed"`
	Frequency  float64 `json:"frequency" yaml:"frequency"`
	Amplitude  float64 `json:"amplitude" yaml:"amplitude"`
	BaseHeight int     `json:"baseHeight" yaml:"baseHeight"`
}

// Load reads configuration from a YAML (.yaml, .yml) or JSON file. An empty
// path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			ID:       "voxel-engine-0",
			TickRate: Duration(16 * time.Millisecond),
		},
		Landscape: LandscapeConfig{
			BeginOffset:  -2,
			EndOffset:    2,
			SyncInterval: Duration(time.Second),
		},
		Meshing: MeshingConfig{
			Workers: 4,
		},
		Terrain: TerrainConfig{
			Enabled:    true,
			Seed:       1337,
			Frequency:  0.01,
			Amplitude:  24,
			BaseHeight: 8,
		},
	}
}

func (c *Config) Validate() error {
	if c.Engine.ID == "" {
		return errors.New("engine.id must be set")
	}
	if c.Engine.TickRate <= 0 {
		return errors.New("engine.tickRate must be positive")
	}
	if c.Landscape.BeginOffset > c.Landscape.EndOffset {
		return errors.New("landscape.beginOffset must be <= endOffset")
	}
	if c.Landscape.SyncInterval <= 0 {
		return errors.New("landscape.syncInterval must be positive")
	}
	if c.Landscape.MaxLoadsPerSecond < 0 {
		return errors.New("landscape.maxLoadsPerSecond cannot be negative")
	}
	if c.Landscape.LoadBurst < 0 {
		return errors.New("landscape.loadBurst cannot be negative")
	}
	if c.Meshing.Workers < 0 {
		return errors.New("meshing.workers cannot be negative")
	}
	if c.Meshing.MaxDirtyPerCycle < 0 {
		return errors.New("meshing.maxDirtyPerCycle cannot be negative")
	}
	if c.Terrain.Enabled && c.Terrain.Frequency <= 0 {
		return errors.New("terrain.frequency must be positive")
	}
	if c.Terrain.Amplitude < 0 {
		return errors.New("terrain.amplitude cannot be negative")
	}
	return nil
}
