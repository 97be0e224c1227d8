package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultAllowedExtensions is the intake allowlist used when the config
// does not specify one.
var DefaultAllowedExtensions = []string{".txt", ".pdf", ".doc", ".docx", ".md"}

// Config represents the main configuration for sealpost.
type Config struct {
	BaseDir           string           `toml:"base_dir"`
	LogDir            string           `toml:"log_dir"`
	AllowedExtensions []string         `toml:"allowed_extensions"`
	Encryption        EncryptionConfig `toml:"encryption"`
	Jobs              JobsConfig       `toml:"jobs"`
	Ledger            LedgerConfig     `toml:"ledger"`
	Artifacts         ArtifactsConfig  `toml:"artifacts"`
	Mail              MailConfig       `toml:"mail"`
}

// EncryptionConfig selects the password-based encryption engine.
type EncryptionConfig struct {
	Type string `toml:"type"` // "aes-gcm" (default) or "age"
}

// JobsConfig represents configuration for the job store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type JobsConfig struct {
	Type    string `toml:"type"`               // "memory" or "sqlite"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// LedgerConfig represents configuration for the hash-chain ledger backing.
type LedgerConfig struct {
	Type string `toml:"type"`           // "memory" or "bolt"
	Path string `toml:"path,omitempty"` // only used for type=bolt
}

// ArtifactsConfig represents configuration for ciphertext/salt storage.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArtifactsConfig struct {
	Type string `toml:"type"` // "filesystem", "memory", or "s3"

	// Filesystem-specific field (only used when Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`
}

// MailConfig represents configuration for outbound mail delivery.
// The SMTP password is read from the environment variable named by
// PasswordEnv so secrets never live in the config file.
type MailConfig struct {
	Type        string `toml:"type"` // "smtp" or "memory"
	Host        string `toml:"host,omitempty"`
	Port        int    `toml:"port,omitempty"`
	From        string `toml:"from,omitempty"`
	Username    string `toml:"username,omitempty"`
	PasswordEnv string `toml:"password_env,omitempty"`
}

// NewConfig creates a new Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:           baseDir,
		LogDir:            filepath.Join(baseDir, "log"),
		AllowedExtensions: DefaultAllowedExtensions,
		Encryption:        EncryptionConfig{Type: "aes-gcm"},
		Jobs:              JobsConfig{Type: "memory"},
		Ledger:            LedgerConfig{Type: "bolt", Path: filepath.Join(baseDir, "ledger.db")},
		Artifacts:         ArtifactsConfig{Type: "filesystem", Root: filepath.Join(baseDir, "artifacts")},
		Mail:              MailConfig{Type: "smtp", Host: "localhost", Port: 25, PasswordEnv: "SEALPOST_SMTP_PASS"},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = DefaultAllowedExtensions
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
