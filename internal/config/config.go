package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	SchemaVersion              = 1
	DefaultPath                = "/etc/dreamebridge/config.yaml"
	DefaultHTTPAddr            = "0.0.0.0:8080"
	DefaultDashboardDir        = "/var/lib/dreamebridge/dashboards"
	DefaultDiscoveryPrefix     = "homeassistant"
	DefaultBaseTopic           = "dreamebridge"
	DefaultPollIntervalSeconds = 30
)

// Config is the root of the YAML config file.
type Config struct {
	SchemaVersion int            `yaml:"schema_version"`
	Core          *CoreConfig    `yaml:"core"`
	MQTT          *MQTTConfig    `yaml:"mqtt"`
	Archive       *ArchiveConfig `yaml:"archive"`
	Dreame        *DreameConfig  `yaml:"dreame"`
}

// CoreConfig holds host-level settings.
type CoreConfig struct {
	HTTPAddr     string `yaml:"http_addr"`
	DashboardDir string `yaml:"dashboard_dir"`
}

// MQTTConfig holds the platform broker session settings.
type MQTTConfig struct {
	Broker          string `yaml:"broker"`
	Username        string `yaml:"username"`
	PasswordFile    string `yaml:"password_file"`
	ClientID        string `yaml:"client_id"`
	DiscoveryPrefix string `yaml:"discovery_prefix"`
	BaseTopic       string `yaml:"base_topic"`
}

// ArchiveConfig holds the optional cleaning-history object store settings.
type ArchiveConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	Region        string `yaml:"region"`
	AccessKeyFile string `yaml:"access_key_file"`
	SecretKeyFile string `yaml:"secret_key_file"`
}

// DreameConfig holds the vacuum device settings.
type DreameConfig struct {
	Host                string `yaml:"host"`
	TokenFile           string `yaml:"token_file"`
	Name                string `yaml:"name"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

// Load parses the YAML config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Core == nil {
		cfg.Core = &CoreConfig{}
	}
	if cfg.Core.HTTPAddr == "" {
		cfg.Core.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.Core.DashboardDir == "" {
		cfg.Core.DashboardDir = DefaultDashboardDir
	}

	if cfg.MQTT != nil {
		if cfg.MQTT.DiscoveryPrefix == "" {
			cfg.MQTT.DiscoveryPrefix = DefaultDiscoveryPrefix
		}
		if cfg.MQTT.BaseTopic == "" {
			cfg.MQTT.BaseTopic = DefaultBaseTopic
		}
	}

	if cfg.Dreame != nil && cfg.Dreame.PollIntervalSeconds == 0 {
		cfg.Dreame.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
}

// Validate enforces required invariants beyond YAML typing.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if cfg.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema_version must be %d", SchemaVersion)
	}

	if cfg.Core == nil {
		return fmt.Errorf("core config is required")
	}
	if cfg.Core.HTTPAddr == "" {
		return fmt.Errorf("core.http_addr is required")
	}

	if cfg.MQTT != nil && cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}

	if cfg.Archive != nil {
		if cfg.Archive.Endpoint == "" {
			return fmt.Errorf("archive.endpoint is required")
		}
		if cfg.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket is required")
		}
		if cfg.Archive.AccessKeyFile == "" {
			return fmt.Errorf("archive.access_key_file is required")
		}
		if cfg.Archive.SecretKeyFile == "" {
			return fmt.Errorf("archive.secret_key_file is required")
		}
	}

	if cfg.Dreame != nil {
		if cfg.Dreame.Host == "" {
			return fmt.Errorf("dreame.host is required")
		}
		if cfg.Dreame.TokenFile == "" {
			return fmt.Errorf("dreame.token_file is required")
		}
		if cfg.Dreame.PollIntervalSeconds < 0 {
			return fmt.Errorf("dreame.poll_interval_seconds must be positive")
		}
	}

	return nil
}

// EnabledPlugins maps enabled plugin IDs based on config presence.
func EnabledPlugins(cfg *Config) map[string]bool {
	enabled := make(map[string]bool)
	if cfg == nil {
		return enabled
	}
	if cfg.Dreame != nil {
		enabled["dreame"] = true
	}
	return enabled
}

// ReadSecretFile loads a single-line secret, trimming trailing whitespace.
func ReadSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	secret := string(data)
	for len(secret) > 0 && (secret[len(secret)-1] == '\n' || secret[len(secret)-1] == '\r' || secret[len(secret)-1] == ' ') {
		secret = secret[:len(secret)-1]
	}
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", path)
	}
	return secret, nil
}
