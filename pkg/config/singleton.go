package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the process-wide configuration.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex

	// configPath remembers the path Initialize loaded from, for reloads.
	configPath string
)

// Initialize loads configuration from path with environment variable
// overrides and stores it as the process-wide configuration. Unlike a
// one-shot initializer it may be called again; the stored configuration
// is only replaced when loading and validation succeed.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}

	configMutex.Lock()
	globalConfig = cfg
	configPath = path
	configMutex.Unlock()

	return nil
}

// GetConfig returns the process-wide configuration, or nil if Initialize
// has not succeeded yet. It is safe for concurrent use.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration. Intended for tests.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// Reload re-reads the path given to Initialize. The file must still exist:
// a config file that was moved or deleted is an error rather than a switch
// to the defaults. On failure the current configuration is kept and the
// error is returned.
func Reload() error {
	configMutex.RLock()
	path := configPath
	configMutex.RUnlock()

	cfg, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()

	return nil
}

// MustGetConfig returns the process-wide configuration and panics if it
// has not been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
