package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Compile-time interface check: InventoryTable must implement Store.
var _ types.Store = (*InventoryTable)(nil)

// InventoryTable implements types.Store over the inventario table. Every
// operation acquires the provider's handle; operations are serialized so
// the handle is never used from two goroutines at once.
type InventoryTable struct {
	mu       sync.Mutex
	provider *Provider
	logger   *zap.Logger
}

// NewInventoryTable creates the store over provider. It does not open the
// database; the first operation does.
func NewInventoryTable(provider *Provider, logger *zap.Logger) *InventoryTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryTable{provider: provider, logger: logger}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateRecord scans one inventario row into a Record.
func hydrateRecord(row rowScanner) (types.Record, error) {
	var r types.Record
	err := row.Scan(&r.ID, &r.Name, &r.Category, &r.Quantity, &r.Location, &r.AcquisitionDate)
	return r, err
}

// EnsureSchema creates the inventario table if it does not exist.
func (it *InventoryTable) EnsureSchema() error {
	it.mu.Lock()
	defer it.mu.Unlock()

	db, err := it.provider.Acquire()
	if err != nil {
		return err
	}
	if _, err := db.Exec(createInventory); err != nil {
		return it.fail("ensure schema", 0, fmt.Errorf("creating %s table: %w", inventoryTable, err))
	}
	return nil
}

// Insert validates r, inserts it and returns the id assigned by SQLite.
func (it *InventoryTable) Insert(r types.Record) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	db, err := it.provider.Acquire()
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(stmtInsert, r.Name, r.Category, r.Quantity, r.Location, r.AcquisitionDate)
	if err != nil {
		return 0, it.fail("insert", 0, fmt.Errorf("inserting record: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, it.fail("insert", 0, fmt.Errorf("reading inserted id: %w", err))
	}
	it.logger.Debug("record inserted", zap.Int64("id", id), zap.String("name", r.Name))
	return id, nil
}

// UpdateQuantity sets the quantity of record id. Setting the value it
// already has succeeds.
func (it *InventoryTable) UpdateQuantity(id int64, quantity int) error {
	if id <= 0 {
		return types.ErrInvalidID
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	return it.execByID("update quantity", id, stmtUpdateQuantity, quantity, id)
}

// UpdateRecord replaces every column of record r.ID.
func (it *InventoryTable) UpdateRecord(r types.Record) error {
	if r.ID <= 0 {
		return types.ErrInvalidID
	}
	if err := r.Validate(); err != nil {
		return err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	return it.execByID("update record", r.ID, stmtUpdateRecord,
		r.Name, r.Category, r.Quantity, r.Location, r.AcquisitionDate, r.ID)
}

// Remove deletes record id.
func (it *InventoryTable) Remove(id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	return it.execByID("remove", id, stmtDelete, id)
}

// execByID runs a statement that targets one row and maps zero affected
// rows to ErrNotFound. The caller must hold it.mu.
func (it *InventoryTable) execByID(op string, id int64, query string, args ...any) error {
	db, err := it.provider.Acquire()
	if err != nil {
		return err
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return it.fail(op, id, fmt.Errorf("%s %d: %w", op, id, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return it.fail(op, id, fmt.Errorf("%s %d: reading affected rows: %w", op, id, err))
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// GetAll returns every record ordered by ascending id.
func (it *InventoryTable) GetAll() ([]types.Record, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	return it.query(stmtSelectAllAsc)
}

// List returns the records matching opts.Search, newest first when
// opts.Descending is set.
func (it *InventoryTable) List(opts types.ListOptions) ([]types.Record, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	stmt := stmtSelectAllAsc
	if opts.Descending {
		stmt = stmtSelectAllDesc
	}
	records, err := it.query(stmt)
	if err != nil {
		return nil, err
	}
	return types.FilterRecords(records, opts.Search), nil
}

// query materializes every row of stmt. The caller must hold it.mu.
func (it *InventoryTable) query(stmt string) ([]types.Record, error) {
	db, err := it.provider.Acquire()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(stmt)
	if err != nil {
		return nil, it.fail("get all", 0, fmt.Errorf("querying records: %w", err))
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		r, err := hydrateRecord(rows)
		if err != nil {
			return nil, it.fail("get all", 0, fmt.Errorf("scanning record: %w", err))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, it.fail("get all", 0, fmt.Errorf("iterating records: %w", err))
	}
	return records, nil
}

// GetByID returns record id, or ErrNotFound.
func (it *InventoryTable) GetByID(id int64) (types.Record, error) {
	if id <= 0 {
		return types.Record{}, types.ErrInvalidID
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	db, err := it.provider.Acquire()
	if err != nil {
		return types.Record{}, err
	}
	r, err := hydrateRecord(db.QueryRow(stmtSelectByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Record{}, types.ErrNotFound
		}
		return types.Record{}, it.fail("get by id", id, fmt.Errorf("getting record %d: %w", id, err))
	}
	return r, nil
}

// Clear deletes every record.
func (it *InventoryTable) Clear() error {
	it.mu.Lock()
	defer it.mu.Unlock()

	db, err := it.provider.Acquire()
	if err != nil {
		return err
	}
	if _, err := db.Exec(stmtDeleteAll); err != nil {
		return it.fail("clear", 0, fmt.Errorf("deleting all records: %w", err))
	}
	return nil
}

// fail logs a backend failure once and returns it unchanged.
func (it *InventoryTable) fail(op string, id int64, err error) error {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if id > 0 {
		fields = append(fields, zap.Int64("id", id))
	}
	it.logger.Error("inventory operation failed", fields...)
	return err
}
