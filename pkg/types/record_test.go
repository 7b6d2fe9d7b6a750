package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{
			name:   "complete record",
			record: Record{Name: "Arduino Uno", Category: "Electronics", Quantity: 10},
		},
		{
			name:    "empty name",
			record:  Record{Category: "Electronics"},
			wantErr: ErrInvalidName,
		},
		{
			name:    "blank name",
			record:  Record{Name: "   ", Category: "Electronics"},
			wantErr: ErrInvalidName,
		},
		{
			name:    "empty category",
			record:  Record{Name: "Arduino Uno"},
			wantErr: ErrInvalidCategory,
		},
		{
			name:   "negative quantity is not rejected",
			record: Record{Name: "Arduino Uno", Category: "Electronics", Quantity: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.record.Validate(), tt.wantErr)
		})
	}
}

func TestRecordMatches(t *testing.T) {
	r := Record{
		ID:              42,
		Name:            "Sensor HC-SR04",
		Category:        "Sensor",
		Quantity:        25,
		Location:        "Shelf B",
		AcquisitionDate: "2025-02-02",
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"hc-sr04", true},
		{"SENSOR", true},
		{"shelf b", true},
		{"2025-02", true},
		{"42", true},
		{"25", true},
		{"arduino", false},
		{"Shelf A", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Matches(tt.query))
		})
	}
}

func TestFilterRecords(t *testing.T) {
	records := []Record{
		{ID: 1, Name: "Arduino Uno", Category: "Electronics"},
		{ID: 2, Name: "Sensor HC-SR04", Category: "Sensor"},
		{ID: 3, Name: "Arduino Nano", Category: "Electronics"},
	}

	got := FilterRecords(records, "arduino")
	assert.Equal(t, []Record{records[0], records[2]}, got)

	assert.Equal(t, records, FilterRecords(records, ""))
	assert.Empty(t, FilterRecords(records, "raspberry"))
}
