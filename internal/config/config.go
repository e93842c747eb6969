// Package config provides configuration management functionality for the wakeup application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/connorhough/wakeup/internal/logging"
	"github.com/connorhough/wakeup/internal/suspend"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeySuspendCommand = "suspend_command"
	KeyEventCommand   = "event_command"
	KeyLogLevel       = "log_level"
)

// SetDefaults registers the built-in value of every key.
func SetDefaults() {
	viper.SetDefault(KeySuspendCommand, suspend.DefaultCommand)
	viper.SetDefault(KeyEventCommand, "")
	viper.SetDefault(KeyLogLevel, logging.DefaultLevel)
}

// GetValue retrieves a configuration value by key
func GetValue(key string) (string, error) {
	if !viper.IsSet(key) {
		return "", fmt.Errorf("key '%s' not found in configuration", key)
	}
	return viper.GetString(key), nil
}

// SetValue sets a configuration value by key and persists it to the config file.
// When no config file was loaded, one is created at DefaultPath first.
func SetValue(key string, value string) error {
	if viper.ConfigFileUsed() == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		if _, err := EnsureConfigExists(path); err != nil {
			return err
		}
		viper.SetConfigFile(path)
	}
	viper.Set(key, value)
	return viper.WriteConfig()
}

// DefaultPath returns where the config file lives when --config is not given:
// $XDG_CONFIG_HOME/wakeup/config.yaml, else ~/.config/wakeup/config.yaml.
func DefaultPath() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "wakeup", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wakeup", "config.yaml"), nil
}

// WakeConfig holds the settings of a wake run
type WakeConfig struct {
	SuspendCommand string
	EventCommand   string
	LogLevel       string
}

// Resolve reads the wake settings from config file, environment and defaults
// Flags are handled separately in command layer
func Resolve() *WakeConfig {
	return &WakeConfig{
		SuspendCommand: viper.GetString(KeySuspendCommand),
		EventCommand:   viper.GetString(KeyEventCommand),
		LogLevel:       viper.GetString(KeyLogLevel),
	}
}

// ApplyFlags applies flag overrides to config (called from command layer)
func (c *WakeConfig) ApplyFlags(suspendFlag, eventFlag string) {
	if suspendFlag != "" {
		c.SuspendCommand = suspendFlag
	}
	if eventFlag != "" {
		c.EventCommand = eventFlag
	}
}
