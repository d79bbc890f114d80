package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir       string  `json:"data_dir"`
	PhotoDir      string  `json:"photo_dir"`
	MaxRetries    int     `json:"max_retries"`
	BackoffBase   float64 `json:"backoff_base"`
	RetentionDays int     `json:"retention_days"`
	SpamCheckURL  string  `json:"spam_check_url"`
	AdminEmail    string  `json:"admin_email"`
}

const configFileName = "config.json"

// NewConfig creates a config with default values
func NewConfig() *Config {
	return &Config{
		DataDir:       "./db",
		PhotoDir:      "./photos",
		MaxRetries:    3,
		BackoffBase:   2.0,
		RetentionDays: 7,
		SpamCheckURL:  "",
		AdminEmail:    "moderators@localhost",
	}
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appConfigDir := filepath.Join(configDir, "modctl")
	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appConfigDir, configFileName), nil
}

func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg := NewConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, so we'll save the defaults and return them
			return cfg, SaveConfig(cfg)
		}
		return nil, err
	}
	if err := json.Unmarshal(file, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
