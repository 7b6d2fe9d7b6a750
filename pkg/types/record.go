package types

import (
	"strconv"
	"strings"
)

// DateLayout is the text form of Record.AcquisitionDate.
const DateLayout = "2006-01-02"

// Record is one row of the inventory: a physical component, how many are
// on hand and where they are kept.
type Record struct {
	ID              int64  `json:"id"`               // Assigned by the store on insert, never reused.
	Name            string `json:"name"`             // Required, non-empty.
	Category        string `json:"category"`         // Required, non-empty.
	Quantity        int    `json:"quantity"`         // Units on hand. The store does not reject negatives.
	Location        string `json:"location"`         // Free text shelf or bin.
	AcquisitionDate string `json:"acquisition_date"` // YYYY-MM-DD, not calendar-checked.
}

// Validate checks the fields a record must carry before it is persisted.
// It returns ErrInvalidName or ErrInvalidCategory; quantity and date are
// not checked.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrInvalidCategory
	}
	return nil
}

// Matches reports whether query occurs, ignoring case, in any column of
// the record, id and quantity included. An empty query matches every
// record.
func (r Record) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range r.columns() {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (r Record) columns() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Name,
		r.Category,
		strconv.Itoa(r.Quantity),
		r.Location,
		r.AcquisitionDate,
	}
}

// FilterRecords returns the records that match query, in input order.
func FilterRecords(records []Record, query string) []Record {
	if query == "" {
		return records
	}
	var out []Record
	for _, r := range records {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}
