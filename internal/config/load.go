package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load loads and processes the config with immediate env var resolution
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var rawConfig map[string]any
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return Config{}, fmt.Errorf("parsing config JSON: %w", err)
	}

	if err := validateRawConfig(rawConfig); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validateRawConfig rejects secrets written as literals before any env
// resolution happens
func validateRawConfig(rawConfig map[string]any) error {
	discord, ok := rawConfig["discord"].(map[string]any)
	if !ok {
		return nil
	}

	for _, name := range []string{"clientSecret", "botToken"} {
		value, exists := discord[name]
		if !exists {
			continue
		}
		if _, isString := value.(string); isString {
			return fmt.Errorf("%s must use environment variable reference for security", name)
		}
		if refMap, isMap := value.(map[string]any); isMap {
			if _, hasEnv := refMap["$env"]; !hasEnv {
				return fmt.Errorf("%s must use {\"$env\": \"VAR_NAME\"} format", name)
			}
		}
	}
	return nil
}

// ValidateConfig validates the resolved configuration. Credential
// values are deliberately not checked for emptiness: an unset env var
// shows up as an upstream unauthorized response, not a startup error.
func ValidateConfig(config *Config) error {
	if config.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if config.Server.DashboardURL == "" {
		return fmt.Errorf("server.dashboardUrl is required")
	}
	if config.Discord.RedirectURI == "" {
		return fmt.Errorf("discord.redirectUri is required")
	}

	switch config.Storage.Kind {
	case "", StorageKindMemory:
	case StorageKindFirestore:
		if config.Storage.GCPProject == "" {
			return fmt.Errorf("storage.gcpProject is required when using firestore storage")
		}
	default:
		return fmt.Errorf("unknown storage kind: %s (must be memory or firestore)", config.Storage.Kind)
	}

	return nil
}
