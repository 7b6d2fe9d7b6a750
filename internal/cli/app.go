package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/logging"
	"github.com/mesh-intelligence/stockroom/internal/lowstock"
	"github.com/mesh-intelligence/stockroom/internal/paths"
	"github.com/mesh-intelligence/stockroom/internal/report"
	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/internal/ui"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// app carries the state shared by the commands of one invocation. The
// database is opened per command through withStore and closed when the
// command returns.
type app struct {
	flags    rootFlags
	settings settings
	logger   *zap.Logger

	// skipOpenWarning turns off the low-stock check in withStore for
	// commands that report low stock themselves.
	skipOpenWarning bool
	warnOnce        sync.Once
}

// setup loads .env and config.yaml, resolves the directories and builds
// the logger. It runs before every command except version.
func (a *app) setup(cmd *cobra.Command) error {
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if cmd.Name() == "version" {
		return nil
	}

	if err := loadDotEnv(); err != nil {
		return sysError("%w", err)
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	v, err := newViper(configDir)
	if err != nil {
		return sysError("%w", err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}
	s, err := settingsFrom(v, configDir, dataDir)
	if err != nil {
		return userError("%w", err)
	}
	if a.flags.logLevel != "" {
		s.logLevel = a.flags.logLevel
	}
	a.settings = s

	logger, err := logging.New(s.logLevel, s.logFormat)
	if err != nil {
		return sysError("create logger: %w", err)
	}
	a.logger = logging.WithRunID(logger).With(zap.String("command", cmd.Name()))
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", s.configDir),
		zap.String("db", s.store.DBPath()))
	return nil
}

// withStore opens the database, makes sure the schema exists, runs the
// low-stock check once and calls fn. The database is closed afterwards.
func (a *app) withStore(cmd *cobra.Command, fn func(store types.Store) error) error {
	provider := sqlite.NewProvider(a.settings.store, logging.Named(a.logger, "sqlite"))
	defer func() {
		if err := provider.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}()

	store := sqlite.NewInventoryTable(provider, logging.Named(a.logger, "inventory"))
	if err := store.EnsureSchema(); err != nil {
		return classify(err)
	}
	if !a.skipOpenWarning {
		a.warnOnce.Do(func() { a.warnLowStock(cmd, store) })
	}

	return classify(fn(store))
}

// warnLowStock prints the low-stock warning to stderr when enabled and
// any record is below the threshold.
func (a *app) warnLowStock(cmd *cobra.Command, store types.Store) {
	if !a.settings.warnOnOpen {
		return
	}
	records, err := store.GetAll()
	if err != nil {
		a.logger.Warn("low-stock check skipped", zap.Error(err))
		return
	}
	res := lowstock.Partition(records, a.settings.threshold)
	if !res.HasLow() {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderWarn(fmt.Sprintf("%s Low stock (below %d):", ui.IconLow, res.Threshold)))
	fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderWarn(res.Warning()))
}

// classify attaches an exit code to err. Bad input and missing records
// are user errors; everything else is a system error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidCategory),
		errors.Is(err, report.ErrInvalidDelimiter):
		return &exitError{code: exitUserError, err: err}
	default:
		return &exitError{code: exitSysError, err: err}
	}
}

// parseID parses a record id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError("invalid id %q: %w", s, types.ErrInvalidID)
	}
	return id, nil
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
