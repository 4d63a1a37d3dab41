// Package settings persists user preferences as YAML under the per-user
// config directory.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appDirName       = "TaskGoblin"
	settingsFileName = "settings.yaml"
)

// Settings are the preferences kept across launches.
type Settings struct {
	StartMoving   bool     // begin pointer nudging as soon as the app starts
	Autostart     bool     // launch the app at login
	ExtraKeepApps []string // user additions to the close-all keep list
}

func DefaultSettings() Settings {
	return Settings{}
}

type yamlSettings struct {
	StartMoving   bool     `yaml:"start_moving"`
	Autostart     bool     `yaml:"autostart"`
	ExtraKeepApps []string `yaml:"extra_keep_apps"`
}

// Load reads preferences from disk. A missing file is not an error; the
// defaults come back instead.
func Load() (Settings, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return DefaultSettings(), err
	}
	return loadFrom(path)
}

// Save writes preferences to disk, creating the config directory on first
// use.
func Save(s Settings) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	return saveTo(path, s)
}

func resolveConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appDirName, settingsFileName), nil
}

func loadFrom(path string) (Settings, error) {
	settings := DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	settings.StartMoving = fileData.StartMoving
	settings.Autostart = fileData.Autostart
	for _, name := range fileData.ExtraKeepApps {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			settings.ExtraKeepApps = append(settings.ExtraKeepApps, trimmed)
		}
	}
	return settings, nil
}

func saveTo(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlSettings{
		StartMoving:   s.StartMoving,
		Autostart:     s.Autostart,
		ExtraKeepApps: s.ExtraKeepApps,
	})
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
