package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// defaultRecords is the sample inventory loaded by "load defaults".
var defaultRecords = []types.Record{
	{Name: "Arduino Uno", Category: "Electronics", Quantity: 10, Location: "Shelf A", AcquisitionDate: "2025-01-15"},
	{Name: "Sensor HC-SR04", Category: "Sensor", Quantity: 25, Location: "Shelf B", AcquisitionDate: "2025-02-02"},
	{Name: "Resistencia 220 ohm", Category: "Electronics", Quantity: 200, Location: "Caja A", AcquisitionDate: "2024-03-01"},
	{Name: "Protoboard 830", Category: "Prototyping", Quantity: 4, Location: "Shelf C", AcquisitionDate: "2024-11-20"},
	{Name: "Servo SG90", Category: "Actuator", Quantity: 3, Location: "Caja B", AcquisitionDate: "2025-03-10"},
	{Name: "LED rojo 5mm", Category: "Electronics", Quantity: 150, Location: "Caja A", AcquisitionDate: "2024-09-05"},
}

// DefaultRecords returns a copy of the built-in sample inventory.
func DefaultRecords() []types.Record {
	out := make([]types.Record, len(defaultRecords))
	copy(out, defaultRecords)
	return out
}

// RecordError pairs a record that failed to load with the reason.
type RecordError struct {
	Index  int
	Record types.Record
	Err    error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.Record.Name, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// BatchResult reports the outcome of a batch load.
type BatchResult struct {
	Inserted []int64
	Failed   []RecordError
}

// Seed inserts each record independently. A failed insert is recorded in
// the result and the remaining records are still inserted; nothing is
// rolled back.
func Seed(store types.Store, records []types.Record) BatchResult {
	var result BatchResult
	for i, r := range records {
		id, err := store.Insert(r)
		if err != nil {
			result.Failed = append(result.Failed, RecordError{Index: i, Record: r, Err: err})
			continue
		}
		result.Inserted = append(result.Inserted, id)
	}
	return result
}

// RestoreDefaults empties the inventory and loads the sample records. The
// ids of the removed rows are not reused.
func RestoreDefaults(store types.Store) (BatchResult, error) {
	if err := store.Clear(); err != nil {
		return BatchResult{}, fmt.Errorf("clearing inventory: %w", err)
	}
	return Seed(store, DefaultRecords()), nil
}
