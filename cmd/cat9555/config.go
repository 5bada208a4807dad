// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/ioexp/cat9555"
)

// Config is the board file: the expanders fitted on a board and how to log.
type Config struct {
	Log     LogConfig      `yaml:"log"`
	Devices []DeviceConfig `yaml:"devices"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DeviceConfig describes one expander.
type DeviceConfig struct {
	Name          string `yaml:"name"`
	Bus           int    `yaml:"bus"`
	Address       uint16 `yaml:"address"`
	Backend       string `yaml:"backend"`
	SharedBusLock bool   `yaml:"shared_bus_lock"`
}

// Defaults returns the configuration used without a board file.
func Defaults() Config {
	return Config{
		Log: LogConfig{Level: "warn", Format: "text"},
		Devices: []DeviceConfig{{
			Name:    "default",
			Bus:     cat9555.DefaultOpts.BusIndex,
			Address: cat9555.DefaultOpts.Address,
			Backend: "periph",
		}},
	}
}

// Load reads a board file. Missing log settings keep their defaults and
// devices without a backend use periph.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	cfg.Devices = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	for i := range cfg.Devices {
		if cfg.Devices[i].Backend == "" {
			cfg.Devices[i].Backend = "periph"
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem found in cfg.
func Validate(cfg Config) error {
	var errs []error
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", cfg.Log.Format))
	}
	if len(cfg.Devices) == 0 {
		errs = append(errs, errors.New("devices must not be empty"))
	}
	seen := map[string]bool{}
	for i, d := range cfg.Devices {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("devices[%d].name must not be empty", i))
		} else if seen[d.Name] {
			errs = append(errs, fmt.Errorf("devices[%d].name %q is duplicated", i, d.Name))
		}
		seen[d.Name] = true
		if d.Bus < 0 {
			errs = append(errs, fmt.Errorf("devices[%d].bus must be >= 0", i))
		}
		if d.Address > 0x7F {
			errs = append(errs, fmt.Errorf("devices[%d].address %#x is not a 7-bit address", i, d.Address))
		}
	}
	return errors.Join(errs...)
}

// Device returns the device called name, or the first one when name is
// empty.
func (c Config) Device(name string) (DeviceConfig, error) {
	if name == "" && len(c.Devices) > 0 {
		return c.Devices[0], nil
	}
	for _, d := range c.Devices {
		if d.Name == name {
			return d, nil
		}
	}
	return DeviceConfig{}, fmt.Errorf("device %q not found", name)
}
