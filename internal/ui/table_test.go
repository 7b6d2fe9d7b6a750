package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func TestPrintRecordTable(t *testing.T) {
	records := []types.Record{
		{ID: 2, Name: "Sensor HC-SR04", Category: "Sensor", Quantity: 3, Location: "Shelf B", AcquisitionDate: "2025-02-02"},
		{ID: 1, Name: "Arduino Uno", Category: "Electronics", Quantity: 10, Location: "Shelf A", AcquisitionDate: "2025-01-15"},
	}

	var buf bytes.Buffer
	PrintRecordTable(&buf, records, func(id int64) bool { return id == 2 })

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "Sensor HC-SR04")
	assert.Contains(t, lines[1], IconLow)
	assert.Contains(t, lines[2], "Arduino Uno")
	assert.NotContains(t, lines[2], IconLow)
	assert.Contains(t, lines[3], "Total: 2 record(s)")
}

func TestPrintRecordTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintRecordTable(&buf, nil, nil)
	assert.Equal(t, "No records found.\n", buf.String())
}

func TestPrintRecordTableTruncatesNames(t *testing.T) {
	long := strings.Repeat("x", 60)
	var buf bytes.Buffer
	PrintRecordTable(&buf, []types.Record{{ID: 1, Name: long, Category: "c"}}, nil)
	assert.NotContains(t, buf.String(), long)
	assert.Contains(t, buf.String(), strings.Repeat("x", maxNameWidth-3)+"...")
}
