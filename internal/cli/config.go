package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/stockroom/internal/lowstock"
	"github.com/mesh-intelligence/stockroom/internal/report"
	"github.com/mesh-intelligence/stockroom/internal/scheduler"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix  = "STOCKROOM"
	dotEnvFile = ".env"
)

// Config keys.
const (
	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyDBFile     = "db_file"
	cfgKeyThreshold  = "low_stock_threshold"
	cfgKeyDelimiter  = "csv_delimiter"
	cfgKeyExportPath = "export_path"
	cfgKeySchedule   = "schedule"
	cfgKeyWarnOnOpen = "warn_on_open"
	cfgKeyLogLevel   = "log.level"
	cfgKeyLogFormat  = "log.format"
)

// settings is the resolved configuration of one invocation.
type settings struct {
	configDir  string
	store      types.Config
	threshold  int
	delimiter  rune
	exportPath string
	schedule   string
	warnOnOpen bool
	logLevel   string
	logFormat  string
}

// loadDotEnv loads .env from the working directory into the process
// environment. Variables already set are kept; a missing file is fine.
func loadDotEnv() error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}
	return nil
}

// newViper returns a viper instance with defaults and environment
// binding, reading config.yaml from configDir when present.
func newViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDBFile, types.DefaultDBFile)
	v.SetDefault(cfgKeyThreshold, lowstock.DefaultThreshold)
	v.SetDefault(cfgKeyDelimiter, string(report.DefaultDelimiter))
	v.SetDefault(cfgKeyExportPath, report.DefaultPath)
	v.SetDefault(cfgKeySchedule, scheduler.DefaultSpec)
	v.SetDefault(cfgKeyWarnOnOpen, true)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "console")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// A missing config.yaml means defaults.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// settingsFrom converts viper values into settings. dataDir is already
// resolved by the caller.
func settingsFrom(v *viper.Viper, configDir, dataDir string) (settings, error) {
	delim, err := report.ParseDelimiter(v.GetString(cfgKeyDelimiter))
	if err != nil {
		return settings{}, fmt.Errorf("%s: %w", cfgKeyDelimiter, err)
	}
	s := settings{
		configDir: configDir,
		store: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
			DBFile:  v.GetString(cfgKeyDBFile),
		},
		threshold:  v.GetInt(cfgKeyThreshold),
		delimiter:  delim,
		exportPath: v.GetString(cfgKeyExportPath),
		schedule:   v.GetString(cfgKeySchedule),
		warnOnOpen: v.GetBool(cfgKeyWarnOnOpen),
		logLevel:   v.GetString(cfgKeyLogLevel),
		logFormat:  v.GetString(cfgKeyLogFormat),
	}
	if err := s.store.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// defaultExportPath returns the configured export path. A relative value
// is taken as relative to the data directory.
func (s settings) defaultExportPath() string {
	path := s.exportPath
	if path == "" {
		path = report.DefaultPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.store.DataDir, path)
}
