package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns the paths sealpost works from, checking environment
// variables first. The base directory is where the ledger, artifact files,
// and job database live by default; the config file sits apart under
// ~/.config. Environment variables:
//   - SEALPOST_CONFIG_PATH: config file location (default: ~/.config/sealpost.toml)
//   - SEALPOST_HOME: base directory for sealpost data (default: ~/.local/share/sealpost)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking SEALPOST_CONFIG_PATH
// env var first, then falling back to the default ~/.config/sealpost.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("SEALPOST_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "sealpost.toml"), nil
}

// getBaseDir returns the base directory for sealpost data, checking
// SEALPOST_HOME env var first, then falling back to the XDG default
// ~/.local/share/sealpost.
func getBaseDir() (string, error) {
	if path := os.Getenv("SEALPOST_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "sealpost"), nil
}
