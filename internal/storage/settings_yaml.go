package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"keyplay/internal/core/model"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	KeyboardSteps          []string `yaml:"keyboard_steps"`
	KeyboardTimeoutSeconds int      `yaml:"keyboard_timeout_seconds"`
	MouseCorners           []string `yaml:"mouse_corners"`
	MouseTimeoutSeconds    int      `yaml:"mouse_timeout_seconds"`
	CornerThresholdPixels  float64  `yaml:"corner_threshold_pixels"`
	Game                   string   `yaml:"game"`
	Fullscreen             *bool    `yaml:"fullscreen"`
}

// LoadSettings reads kiosk settings from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (model.Settings, error) {
	settings := model.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

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

// SaveSettings writes kiosk settings to YAML.
func SaveSettings(appName string, settings model.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fullscreen := settings.Fullscreen
	fileData := yamlSettings{
		KeyboardSteps:          settings.KeyboardSteps,
		KeyboardTimeoutSeconds: int(settings.KeyboardTimeout / time.Second),
		MouseCorners:           settings.MouseCorners,
		MouseTimeoutSeconds:    int(settings.MouseTimeout / time.Second),
		CornerThresholdPixels:  settings.CornerThreshold,
		Game:                   settings.Game,
		Fullscreen:             &fullscreen,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if len(fileData.KeyboardSteps) > 0 {
		settings.KeyboardSteps = fileData.KeyboardSteps
	}
	if fileData.KeyboardTimeoutSeconds > 0 {
		settings.KeyboardTimeout = time.Duration(fileData.KeyboardTimeoutSeconds) * time.Second
	}
	if corners := validCorners(fileData.MouseCorners); len(corners) > 0 {
		settings.MouseCorners = corners
	}
	if fileData.MouseTimeoutSeconds > 0 {
		settings.MouseTimeout = time.Duration(fileData.MouseTimeoutSeconds) * time.Second
	}
	if fileData.CornerThresholdPixels > 0 {
		settings.CornerThreshold = fileData.CornerThresholdPixels
	}
	if fileData.Game != "" {
		settings.Game = fileData.Game
	}
	if fileData.Fullscreen != nil {
		settings.Fullscreen = *fileData.Fullscreen
	}
}

// validCorners keeps a configured mouse sequence only when every step names
// a real corner; otherwise the stock sequence stays in effect.
func validCorners(corners []string) []string {
	if len(corners) == 0 {
		return nil
	}
	for _, corner := range corners {
		switch model.CornerToken(corner) {
		case model.CornerTopLeft, model.CornerTopRight, model.CornerBottomRight, model.CornerBottomLeft:
		default:
			return nil
		}
	}
	return corners
}
