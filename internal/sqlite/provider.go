// Package sqlite implements the SQLite storage for the stockroom inventory.
// A Provider owns the single connection to the database file; an
// InventoryTable runs the inventory statements over it.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// lockSuffix is appended to the database path to name its lock file.
const lockSuffix = ".lock"

// Provider owns the one connection to the inventory database file. The
// file is opened lazily on the first Acquire and the same handle is
// returned until Close. A failed open is not retried: every later Acquire
// returns the same error.
type Provider struct {
	mu     sync.Mutex
	config types.Config
	path   string
	logger *zap.Logger

	db      *sql.DB
	lock    *flock.Flock
	openErr error
	closed  bool
}

// NewProvider creates an unopened provider for the database described by
// config. The config is validated on the first Acquire.
func NewProvider(config types.Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		config: config,
		path:   config.DBPath(),
		logger: logger,
	}
}

// Path returns the database file path.
func (p *Provider) Path() string {
	return p.path
}

// Acquire returns the open database handle, opening (and creating) the
// file on the first call. Open failures wrap types.ErrOpenFailed.
func (p *Provider) Acquire() (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, types.ErrProviderClosed
	}
	if p.db != nil {
		return p.db, nil
	}
	if p.openErr != nil {
		return nil, p.openErr
	}

	db, err := p.open()
	if err != nil {
		p.openErr = fmt.Errorf("%w: %s: %w", types.ErrOpenFailed, p.path, err)
		p.logger.Error("open database failed", zap.String("path", p.path), zap.Error(err))
		return nil, p.openErr
	}

	p.db = db
	p.logger.Debug("database opened", zap.String("path", p.path))
	return p.db, nil
}

// open performs the one-time open sequence: validate, create the data
// directory, take the file lock, open and ping.
func (p *Provider) open() (*sql.DB, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	lock := flock.New(p.path + lockSuffix)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking database: %w", err)
	}
	if !locked {
		return nil, types.ErrLocked
	}

	db, err := sql.Open(driverName, p.path)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	// One handle, one consumer.
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; the ping creates the file on disk.
	if err := db.Ping(); err != nil {
		db.Close()
		lock.Unlock()
		return nil, err
	}

	p.lock = lock
	return db, nil
}

// Close releases the handle and the file lock. Close is idempotent; after
// Close, Acquire returns types.ErrProviderClosed.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
		p.db = nil
	}
	if p.lock != nil {
		if err := p.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("releasing lock: %w", err))
		}
		p.lock = nil
	}
	p.logger.Debug("database closed", zap.String("path", p.path))
	return errors.Join(errs...)
}
