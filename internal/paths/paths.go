// Package paths resolves configuration and data directory locations.
// Each directory follows the chain flag > environment > config value >
// working-directory default, and every result is absolute.
package paths

import (
	"os"
	"path/filepath"
)

// DefaultConfigDirName is the config directory created under the working
// directory when nothing else is set.
const DefaultConfigDirName = ".stockroom"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "STOCKROOM_CONFIG_DIR"
	EnvDataDir   = "STOCKROOM_DATA_DIR"
)

// getwd can be overridden in tests.
var getwd = os.Getwd

// DefaultConfigDir returns $(CWD)/.stockroom.
func DefaultConfigDir() (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// DefaultDataDir returns the working directory, where the database file
// sits next to the reports it produces.
func DefaultDataDir() (string, error) {
	return getwd()
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > STOCKROOM_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence
// chain: flag > STOCKROOM_DATA_DIR > configValue (data_dir in
// config.yaml) > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return DefaultDataDir()
}
