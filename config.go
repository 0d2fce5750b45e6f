package breathwork

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const AppName = "breathwork"

const (
	DatabasePathKey = "BREATHWORK_DB_PATH"
	SettingsPathKey = "BREATHWORK_SETTINGS_PATH"
	LogLevelKey     = "BREATHWORK_LOG_LEVEL"
	TickMSKey       = "BREATHWORK_TICK_MS"
)

const DefaultTickInterval = 250 * time.Millisecond

type Config struct {
	DatabasePath string
	SettingsPath string
	LogLevel     string
	TickInterval time.Duration
}

// LoadConfig reads the environment after loading .env (production) or
// .env.dev. Missing files are ignored.
func LoadConfig(isProd bool) (Config, error) {
	if isProd {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}

	config := Config{
		DatabasePath: os.Getenv(DatabasePathKey),
		SettingsPath: os.Getenv(SettingsPathKey),
		LogLevel:     os.Getenv(LogLevelKey),
		TickInterval: DefaultTickInterval,
	}

	if raw := os.Getenv(TickMSKey); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: want a positive integer", TickMSKey, raw)
		}
		config.TickInterval = time.Duration(ms) * time.Millisecond
	}

	if config.DatabasePath == "" || config.SettingsPath == "" {
		dir, err := DataDir()
		if err != nil {
			return Config{}, err
		}
		if config.DatabasePath == "" {
			config.DatabasePath = filepath.Join(dir, AppName+".db")
		}
		if config.SettingsPath == "" {
			config.SettingsPath = filepath.Join(dir, "settings.yaml")
		}
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	return config, nil
}

// DataDir is the per-user directory holding the database and settings.
func DataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}
