package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("SEALPOST_CONFIG_PATH", "/etc/sealpost/sealpost.toml")
		t.Setenv("SEALPOST_HOME", "/srv/sealpost")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/etc/sealpost/sealpost.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/etc/sealpost/sealpost.toml")
		}
		if defaults["base_dir"] != "/srv/sealpost" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/srv/sealpost")
		}
		if defaults["log_dir"] != "/srv/sealpost/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/srv/sealpost/log")
		}
	})

	t.Run("env base dir still derives log dir", func(t *testing.T) {
		t.Setenv("SEALPOST_CONFIG_PATH", "")
		t.Setenv("SEALPOST_HOME", filepath.Join("/data", "sealed"))

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if defaults["log_dir"] != filepath.Join("/data", "sealed", "log") {
			t.Errorf("log_dir = %q, want base_dir/log", defaults["log_dir"])
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("SEALPOST_CONFIG_PATH", "")
		t.Setenv("SEALPOST_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "sealpost.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "sealpost")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}
