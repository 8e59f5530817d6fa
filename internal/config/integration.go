package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// global is the process-wide configuration set by the root command.
var global atomic.Pointer[Config] //nolint:gochecknoglobals // shared by every subcommand

// SetGlobalConfig installs cfg as the process-wide configuration once files,
// environment and flags have been applied. A nil cfg makes the next
// GetGlobalConfig fall back to New.
func SetGlobalConfig(cfg *Config) {
	global.Store(cfg)
}

// ResetGlobalConfigForTest drops the process-wide configuration.
func ResetGlobalConfigForTest() {
	global.Store(nil)
}

// GetGlobalConfig returns the process-wide configuration, loading it with New
// on first use.
func GetGlobalConfig() *Config {
	if cfg := global.Load(); cfg != nil {
		return cfg
	}
	global.CompareAndSwap(nil, New())
	return global.Load()
}

// GetDefaultOutputFormat returns the output format used when -o is omitted.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetConfigDir returns $USERTABLE_HOME, or ~/.usertable when it is unset.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("USERTABLE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".usertable"), nil
}

// DefaultConfigPath returns the location of config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// EnsureLogDir creates the parent of the configured log file. Without a log
// file there is nothing to do.
func EnsureLogDir() error {
	file := GetGlobalConfig().Logging.File
	if file == "" {
		return nil
	}
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	return nil
}
