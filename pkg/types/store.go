package types

import "errors"

// ListOptions controls List. The zero value lists every record by
// ascending id.
type ListOptions struct {
	Search     string // case-insensitive substring over all columns
	Descending bool   // newest id first, as the inventory table view shows it
}

// Store provides the inventory operations over a single table.
// Update and remove report ErrNotFound when no row has the given id;
// reads propagate backend failures instead of returning an empty result.
type Store interface {
	// EnsureSchema creates the inventory table if it does not exist.
	EnsureSchema() error

	// Insert persists r and returns the id assigned by the store.
	// r.ID is ignored.
	Insert(r Record) (int64, error)

	// UpdateQuantity sets the quantity of the record with the given id.
	UpdateQuantity(id int64, quantity int) error

	// UpdateRecord replaces every field of the record with r.ID.
	UpdateRecord(r Record) error

	// Remove deletes the record with the given id.
	Remove(id int64) error

	// GetAll returns every record ordered by id.
	GetAll() ([]Record, error)

	// GetByID returns the record with the given id.
	GetByID(id int64) (Record, error)

	// List returns the records matching opts.
	List(opts ListOptions) ([]Record, error)

	// Clear deletes every record. Ids already handed out stay retired.
	Clear() error
}

// Store operation errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidID       = errors.New("invalid record ID")
	ErrInvalidName     = errors.New("name must not be empty")
	ErrInvalidCategory = errors.New("category must not be empty")
)

// Connection errors.
var (
	ErrOpenFailed     = errors.New("open database failed")
	ErrLocked         = errors.New("database is in use by another process")
	ErrProviderClosed = errors.New("connection provider is closed")
)
