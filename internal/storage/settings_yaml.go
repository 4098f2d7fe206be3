package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pomodoro/internal/core/model"
	"pomodoro/internal/platform"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	FocusMinutes int      `yaml:"focus_minutes"`
	BreakMinutes int      `yaml:"break_minutes"`
	SoundEnabled *bool    `yaml:"sound_enabled"`
	SoundURL     string   `yaml:"sound_url"`
	Volume       *float64 `yaml:"volume"`
	Language     string   `yaml:"language"`
	Boundary     string   `yaml:"boundary"`
}

// LoadSettings reads user preferences from the YAML file at configPath.
// If the file does not exist, default settings are returned.
func LoadSettings(configPath string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
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

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// ResolveConfigPath returns the default settings file location for appName.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// applyYamlSettings copies every in-domain value; anything else keeps its
// default.
func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.FocusMinutes >= model.MinFocusMinutes && fileData.FocusMinutes <= model.MaxFocusMinutes {
		settings.FocusMinutes = model.ClampFocus(fileData.FocusMinutes)
	}
	if fileData.BreakMinutes >= model.MinBreakMinutes && fileData.BreakMinutes <= model.MaxBreakMinutes {
		settings.BreakMinutes = fileData.BreakMinutes
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.SoundURL != "" {
		settings.SoundURL = fileData.SoundURL
	}
	if fileData.Volume != nil && *fileData.Volume >= -3 && *fileData.Volume <= 1 {
		settings.Volume = *fileData.Volume
	}
	if fileData.Language != "" {
		settings.Language = fileData.Language
	}
	if fileData.Boundary == "original" || fileData.Boundary == "normalized" {
		settings.Boundary = fileData.Boundary
	}
}
