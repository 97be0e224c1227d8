package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:           "/home/user/.local/share/sealpost",
		LogDir:            "/home/user/.local/share/sealpost/log",
		AllowedExtensions: []string{".txt", ".md"},
		Encryption:        EncryptionConfig{Type: "age"},
		Jobs:              JobsConfig{Type: "sqlite", DataDir: "/home/user/.local/share/sealpost/db"},
		Ledger:            LedgerConfig{Type: "bolt", Path: "/home/user/.local/share/sealpost/ledger.db"},
		Artifacts: ArtifactsConfig{
			Type:     "s3",
			S3Bucket: "sealpost-artifacts",
			S3Prefix: "prod",
			S3Region: "eu-west-1",
		},
		Mail: MailConfig{
			Type:        "smtp",
			Host:        "smtp.example.com",
			Port:        587,
			From:        "sealpost@example.com",
			Username:    "sealpost",
			PasswordEnv: "SEALPOST_SMTP_PASS",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if len(got.AllowedExtensions) != 2 || got.AllowedExtensions[0] != ".txt" {
		t.Errorf("AllowedExtensions = %v, want %v", got.AllowedExtensions, original.AllowedExtensions)
	}
	if got.Encryption.Type != "age" {
		t.Errorf("Encryption.Type = %q, want %q", got.Encryption.Type, "age")
	}
	if got.Jobs.Type != "sqlite" || got.Jobs.DataDir != original.Jobs.DataDir {
		t.Errorf("Jobs = %+v, want %+v", got.Jobs, original.Jobs)
	}
	if got.Ledger.Type != "bolt" || got.Ledger.Path != original.Ledger.Path {
		t.Errorf("Ledger = %+v, want %+v", got.Ledger, original.Ledger)
	}
	if got.Artifacts.S3Bucket != "sealpost-artifacts" {
		t.Errorf("Artifacts.S3Bucket = %q, want %q", got.Artifacts.S3Bucket, "sealpost-artifacts")
	}
	if got.Mail.Host != "smtp.example.com" || got.Mail.Port != 587 {
		t.Errorf("Mail = %+v, want %+v", got.Mail, original.Mail)
	}
	if got.Mail.PasswordEnv != "SEALPOST_SMTP_PASS" {
		t.Errorf("Mail.PasswordEnv = %q, want %q", got.Mail.PasswordEnv, "SEALPOST_SMTP_PASS")
	}
}

func TestManager_Read_defaultsAllowedExtensions(t *testing.T) {
	m := &Manager{}

	got, err := m.Read(bytes.NewBufferString("base_dir = \"/data/sealpost\"\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got.AllowedExtensions) != len(DefaultAllowedExtensions) {
		t.Errorf("AllowedExtensions = %v, want defaults %v", got.AllowedExtensions, DefaultAllowedExtensions)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/sealpost")

	if cfg.BaseDir != "/data/sealpost" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/sealpost")
	}
	if cfg.LogDir != "/data/sealpost/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/sealpost/log")
	}
	if cfg.Encryption.Type != "aes-gcm" {
		t.Errorf("Encryption.Type = %q, want %q", cfg.Encryption.Type, "aes-gcm")
	}
	if cfg.Ledger.Path != "/data/sealpost/ledger.db" {
		t.Errorf("Ledger.Path = %q, want %q", cfg.Ledger.Path, "/data/sealpost/ledger.db")
	}
	if cfg.Artifacts.Root != "/data/sealpost/artifacts" {
		t.Errorf("Artifacts.Root = %q, want %q", cfg.Artifacts.Root, "/data/sealpost/artifacts")
	}
	if cfg.Mail.PasswordEnv != "SEALPOST_SMTP_PASS" {
		t.Errorf("Mail.PasswordEnv = %q, want %q", cfg.Mail.PasswordEnv, "SEALPOST_SMTP_PASS")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "sealpost.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "sealpost.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Error("second Init() should fail, got nil")
		}
	})
}
