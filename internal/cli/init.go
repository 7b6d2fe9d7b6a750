package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend           string    `yaml:"backend"`
	DataDir           string    `yaml:"data_dir,omitempty"`
	DBFile            string    `yaml:"db_file"`
	LowStockThreshold int       `yaml:"low_stock_threshold"`
	CSVDelimiter      string    `yaml:"csv_delimiter"`
	ExportPath        string    `yaml:"export_path"`
	Schedule          string    `yaml:"schedule"`
	WarnOnOpen        bool      `yaml:"warn_on_open"`
	Log               logConfig `yaml:"log"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize stockroom storage",
		Long:  "Create the configuration directory and config.yaml, then create the inventory database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.settings.configDir, 0o755); err != nil {
				return sysError("create config directory: %w", err)
			}

			dataDir := ""
			if a.flags.dataDir != "" {
				dataDir = a.settings.store.DataDir
			}
			configPath := filepath.Join(a.settings.configDir, configFileExt)
			written, err := writeConfigIfMissing(configPath, a.settings, dataDir)
			if err != nil {
				return sysError("write config: %w", err)
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			}

			return a.withStore(cmd, func(types.Store) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Stockroom initialized at %s\n", a.settings.store.DBPath())
				return nil
			})
		},
	}
}

// writeConfigIfMissing creates config.yaml from s if the file does not
// exist. It reports whether it wrote the file. data_dir is recorded only
// when it was given explicitly.
func writeConfigIfMissing(path string, s settings, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:           s.store.Backend,
		DataDir:           dataDir,
		DBFile:            s.store.DBFile,
		LowStockThreshold: s.threshold,
		CSVDelimiter:      string(s.delimiter),
		ExportPath:        s.exportPath,
		Schedule:          s.schedule,
		WarnOnOpen:        s.warnOnOpen,
		Log:               logConfig{Level: s.logLevel, Format: s.logFormat},
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
