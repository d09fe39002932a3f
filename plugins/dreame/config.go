package dreame

import (
	"fmt"
	"strings"
	"time"

	"github.com/vosola/dreamebridge/internal/config"
)

const defaultName = "Xiaomi 1C"

// Config defines runtime configuration for the vacuum plugin.
type Config struct {
	Host         string
	Token        string
	Name         string
	PollInterval time.Duration
}

func ConfigFrom(cfg *config.DreameConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("dreame config is required")
	}
	if cfg.Host == "" {
		return Config{}, fmt.Errorf("dreame host is required")
	}
	if cfg.TokenFile == "" {
		return Config{}, fmt.Errorf("dreame token_file is required")
	}

	token, err := config.ReadSecretFile(cfg.TokenFile)
	if err != nil {
		return Config{}, fmt.Errorf("read device token: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = defaultName
	}

	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Duration(config.DefaultPollIntervalSeconds) * time.Second
	}

	return Config{
		Host:         cfg.Host,
		Token:        token,
		Name:         name,
		PollInterval: interval,
	}, nil
}

// UniqueID derives the stable entity id from the device host.
func (c Config) UniqueID() string {
	host := strings.NewReplacer(".", "_", ":", "_").Replace(c.Host)
	return "dreame_1c_" + host
}
