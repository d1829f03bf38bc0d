// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/hypertyper/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameConfig `toml:"game"`
}

// GameConfig maps game settings. Nil fields are unset.
type GameConfig struct {
	Mode        *string `toml:"mode"`
	TimeLimit   *int    `toml:"time-limit"`
	ShowTimer   *bool   `toml:"show-timer"`
	Sound       *bool   `toml:"sound"`
	GodMode     *int    `toml:"god-mode"`
	Lookback    *int    `toml:"lookback"`
	Corrections *bool   `toml:"corrections"`
	Player      *string `toml:"player"`
	DataDir     *string `toml:"data-dir"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, replacing the file atomically.
func SaveConfig(path string, cfg FileConfig) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := fmt.Fprintln(tmpFile, "# hypertyper configuration"); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := toml.NewEncoder(tmpFile).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// FromModel captures every setting of cfg for saving.
func FromModel(cfg model.Config) FileConfig {
	seconds := int(cfg.TimeLimit / time.Second)
	return FileConfig{Game: GameConfig{
		Mode:        &cfg.Mode,
		TimeLimit:   &seconds,
		ShowTimer:   &cfg.ShowTimer,
		Sound:       &cfg.Sound,
		GodMode:     &cfg.GodModeThreshold,
		Lookback:    &cfg.Lookback,
		Corrections: &cfg.Corrections,
		Player:      &cfg.Player,
		DataDir:     &cfg.DataDir,
	}}
}

// Merge overlays the set fields of override onto base.
func Merge(base, override FileConfig) FileConfig {
	b, o := &base.Game, override.Game
	if o.Mode != nil {
		b.Mode = o.Mode
	}
	if o.TimeLimit != nil {
		b.TimeLimit = o.TimeLimit
	}
	if o.ShowTimer != nil {
		b.ShowTimer = o.ShowTimer
	}
	if o.Sound != nil {
		b.Sound = o.Sound
	}
	if o.GodMode != nil {
		b.GodMode = o.GodMode
	}
	if o.Lookback != nil {
		b.Lookback = o.Lookback
	}
	if o.Corrections != nil {
		b.Corrections = o.Corrections
	}
	if o.Player != nil {
		b.Player = o.Player
	}
	if o.DataDir != nil {
		b.DataDir = o.DataDir
	}
	return base
}
