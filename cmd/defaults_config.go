package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skirmish-sim/skirmish/sim"
	"github.com/skirmish-sim/skirmish/sim/calibration"
)

// FactionDefaults describes one faction in defaults.yaml. Zero values leave
// the built-in default in place.
type FactionDefaults struct {
	Marker      string `yaml:"marker"`
	HitPoints   int    `yaml:"hit_points"`
	AttackPower int    `yaml:"attack_power"`
}

type EngineDefaults struct {
	MaxRounds int    `yaml:"max_rounds"`
	Trace     string `yaml:"trace"`
}

type CalibrationDefaults struct {
	LowerBound   int    `yaml:"lower_bound"`
	MaxDoublings int    `yaml:"max_doublings"`
	Accept       string `yaml:"accept"`
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Factions struct {
		A FactionDefaults `yaml:"a"`
		B FactionDefaults `yaml:"b"`
	} `yaml:"factions"`
	Engine      EngineDefaults      `yaml:"engine"`
	Calibration CalibrationDefaults `yaml:"calibration"`
}

// settings is everything a command needs to parse and run an arena.
type settings struct {
	Arena       sim.ArenaConfig
	Engine      sim.EngineConfig
	Calibration calibration.Config
}

func builtinSettings() settings {
	return settings{
		Arena:       sim.DefaultArenaConfig(),
		Engine:      sim.DefaultEngineConfig(),
		Calibration: calibration.DefaultConfig(),
	}
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking so typos are errors.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read defaults file: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse defaults YAML %s: %w", path, err)
	}
	return cfg, nil
}

// apply overlays the non-zero values of cfg onto s.
func (cfg Config) apply(s *settings) error {
	for _, f := range []struct {
		in  FactionDefaults
		out *sim.FactionConfig
	}{{cfg.Factions.A, &s.Arena.A}, {cfg.Factions.B, &s.Arena.B}} {
		if f.in.Marker != "" {
			if len(f.in.Marker) != 1 {
				return fmt.Errorf("faction marker %q must be a single character", f.in.Marker)
			}
			f.out.Marker = f.in.Marker[0]
		}
		if f.in.HitPoints != 0 {
			f.out.HitPoints = f.in.HitPoints
		}
		if f.in.AttackPower != 0 {
			f.out.AttackPower = f.in.AttackPower
		}
	}

	if cfg.Engine.MaxRounds != 0 {
		s.Engine.MaxRounds = cfg.Engine.MaxRounds
	}
	if cfg.Engine.Trace != "" {
		if err := setTraceLevel(&s.Engine, cfg.Engine.Trace); err != nil {
			return err
		}
	}

	if cfg.Calibration.LowerBound != 0 {
		s.Calibration.LowerBound = cfg.Calibration.LowerBound
	}
	if cfg.Calibration.MaxDoublings != 0 {
		s.Calibration.MaxDoublings = cfg.Calibration.MaxDoublings
	}
	if cfg.Calibration.Accept != "" {
		s.Calibration.Accept = cfg.Calibration.Accept
	}
	return s.Arena.Validate()
}
