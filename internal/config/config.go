package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Secret is a string type that redacts itself when printed
type Secret string

// String implements fmt.Stringer to redact the secret
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "***"
}

// MarshalJSON implements json.Marshaler to prevent secrets in JSON logs
func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return json.Marshal("")
	}
	return json.Marshal("***")
}

// StorageKind selects the document store backing the dashboard
type StorageKind string

const (
	StorageKindMemory    StorageKind = "memory"
	StorageKindFirestore StorageKind = "firestore"
)

// ServerConfig holds the HTTP listener and frontend settings
type ServerConfig struct {
	Addr           string   `json:"addr"`
	DashboardURL   string   `json:"dashboardUrl"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// DiscordConfig holds the OAuth2 application and bot credentials.
// Missing env vars resolve to empty strings: Discord rejects the
// resulting calls as unauthorized, which is the failure mode we want
// instead of refusing to start.
type DiscordConfig struct {
	ClientID     string `json:"clientId"`
	ClientSecret Secret `json:"clientSecret"`
	BotToken     Secret `json:"botToken"`
	RedirectURI  string `json:"redirectUri"`
}

// StorageConfig selects and parameterizes the document store
type StorageConfig struct {
	Kind       StorageKind `json:"kind"`
	GCPProject string      `json:"gcpProject,omitempty"`
	Database   string      `json:"database,omitempty"`
}

// SessionConfig configures the durable session store
type SessionConfig struct {
	// File is where the restored-session snapshot lives. Empty means
	// in-memory only (sessions do not survive a restart).
	File string `json:"file,omitempty"`
}

// Config is the fully resolved service configuration
type Config struct {
	Server  ServerConfig  `json:"server"`
	Discord DiscordConfig `json:"discord"`
	Storage StorageConfig `json:"storage"`
	Session SessionConfig `json:"session"`
}

// UnmarshalJSON resolves env var references for the credential fields
func (d *DiscordConfig) UnmarshalJSON(data []byte) error {
	type rawDiscord struct {
		ClientID     json.RawMessage `json:"clientId"`
		ClientSecret json.RawMessage `json:"clientSecret"`
		BotToken     json.RawMessage `json:"botToken"`
		RedirectURI  string          `json:"redirectUri"`
	}

	var raw rawDiscord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.RedirectURI = raw.RedirectURI

	if raw.ClientID != nil {
		value, err := ParseConfigValue(raw.ClientID)
		if err != nil {
			return fmt.Errorf("parsing clientId: %w", err)
		}
		d.ClientID = value
	}

	if raw.ClientSecret != nil {
		value, err := ParseConfigValue(raw.ClientSecret)
		if err != nil {
			return fmt.Errorf("parsing clientSecret: %w", err)
		}
		d.ClientSecret = Secret(value)
	}

	if raw.BotToken != nil {
		value, err := ParseConfigValue(raw.BotToken)
		if err != nil {
			return fmt.Errorf("parsing botToken: %w", err)
		}
		d.BotToken = Secret(value)
	}

	return nil
}

// ParseConfigValue parses a JSON value that is either a plain string or
// an {"$env": "VAR_NAME"} reference resolved against the environment.
// The explicit reference form keeps secrets out of config files and is
// immune to accidental shell expansion.
func ParseConfigValue(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}

	var ref map[string]string
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", fmt.Errorf("config value must be string or reference object")
	}

	envVar, ok := ref["$env"]
	if !ok {
		return "", fmt.Errorf("reference object must use {\"$env\": \"VAR_NAME\"} format")
	}
	return os.Getenv(envVar), nil
}
