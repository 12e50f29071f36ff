package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/dm-vev/sandcore/server/world"
	"github.com/dm-vev/sandcore/server/world/generator/simplefill"
)

// UserConfig is the serialisable configuration for the sandworld demo
// binary: a flat, TOML-friendly struct converted into a world.Config by
// Config().
type UserConfig struct {
	World struct {
		Seed        int64
		SurfaceY    int32
		Workers     int
		WithLight   bool
		WithBackground bool
		SaveData    bool
		Folder      string
	}
	Loader struct {
		ScreenWidth, ScreenHeight int32
	}
}

// DefaultUserConfig returns the configuration the demo binary ships with.
func DefaultUserConfig() UserConfig {
	var c UserConfig
	c.World.SurfaceY = 64
	c.World.Folder = "sandworld_data"
	c.Loader.ScreenWidth = 640
	c.Loader.ScreenHeight = 360
	return c
}

// Config converts uc into a world.Config, opening a LevelDBProvider if
// SaveData is enabled.
func (uc UserConfig) Config(log *slog.Logger) (world.Config, error) {
	settings := world.DefaultSettings()
	settings.WithLight = uc.World.WithLight
	settings.WithBackground = uc.World.WithBackground
	settings.ScreenWidth = uc.Loader.ScreenWidth
	settings.ScreenHeight = uc.Loader.ScreenHeight
	conf := world.Config{
		Log:       log,
		Seed:      uc.World.Seed,
		Settings:  settings,
		Generator: simplefill.New(uc.World.SurfaceY),
		Workers:   uc.World.Workers,
	}
	if uc.World.SaveData {
		folder := strings.TrimSpace(uc.World.Folder)
		if folder == "" {
			folder = "sandworld_data"
		}
		provider, err := world.NewLevelDBProvider(folder)
		if err != nil {
			return world.Config{}, fmt.Errorf("open world provider: %w", err)
		}
		conf.Provider = provider
	}
	return conf, nil
}

// readUserConfig loads path, creating it with defaults if absent.
func readUserConfig(path string) (UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		conf := DefaultUserConfig()
		encoded, mErr := toml.Marshal(conf)
		if mErr != nil {
			return UserConfig{}, fmt.Errorf("marshal default config: %w", mErr)
		}
		if wErr := os.WriteFile(path, encoded, 0644); wErr != nil {
			return UserConfig{}, fmt.Errorf("write default config: %w", wErr)
		}
		return conf, nil
	}
	if err != nil {
		return UserConfig{}, fmt.Errorf("read config: %w", err)
	}
	conf := DefaultUserConfig()
	if err := toml.Unmarshal(data, &conf); err != nil {
		return UserConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return conf, nil
}
