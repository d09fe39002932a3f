package dreame

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vosola/dreamebridge/internal/config"
)

func writeTokenFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write token file: %v", err)
	}
	return path
}

func TestConfigFrom(t *testing.T) {
	tokenFile := writeTokenFile(t, "a1b2c3d4e5f6\n")

	cfg, err := ConfigFrom(&config.DreameConfig{
		Host:      "192.168.1.50",
		TokenFile: tokenFile,
	})
	if err != nil {
		t.Fatalf("ConfigFrom: %v", err)
	}

	if cfg.Token != "a1b2c3d4e5f6" {
		t.Errorf("unexpected token %q", cfg.Token)
	}
	if cfg.Name != "Xiaomi 1C" {
		t.Errorf("unexpected default name %q", cfg.Name)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("unexpected default interval %s", cfg.PollInterval)
	}
}

func TestConfigFromOverrides(t *testing.T) {
	tokenFile := writeTokenFile(t, "secret")

	cfg, err := ConfigFrom(&config.DreameConfig{
		Host:                "vacuum.lan",
		TokenFile:           tokenFile,
		Name:                "Upstairs Vacuum",
		PollIntervalSeconds: 10,
	})
	if err != nil {
		t.Fatalf("ConfigFrom: %v", err)
	}

	if cfg.Name != "Upstairs Vacuum" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("unexpected interval %s", cfg.PollInterval)
	}
}

func TestConfigFromErrors(t *testing.T) {
	tokenFile := writeTokenFile(t, "secret")

	cases := []struct {
		name string
		cfg  *config.DreameConfig
	}{
		{"nil config", nil},
		{"missing host", &config.DreameConfig{TokenFile: tokenFile}},
		{"missing token file", &config.DreameConfig{Host: "vacuum.lan"}},
		{"unreadable token file", &config.DreameConfig{Host: "vacuum.lan", TokenFile: "/does/not/exist"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ConfigFrom(tc.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUniqueID(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"192.168.1.50", "dreame_1c_192_168_1_50"},
		{"vacuum.lan", "dreame_1c_vacuum_lan"},
		{"fe80::1", "dreame_1c_fe80__1"},
	}

	for _, tc := range cases {
		cfg := Config{Host: tc.host}
		if got := cfg.UniqueID(); got != tc.want {
			t.Errorf("UniqueID(%s) = %s, want %s", tc.host, got, tc.want)
		}
	}
}
