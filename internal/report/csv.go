// Package report writes the inventory as a delimited text report and reads
// such reports back for batch loading.
package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// DefaultDelimiter separates fields unless configured otherwise.
const DefaultDelimiter = ';'

// DefaultPath is the file name suggested for an export.
const DefaultPath = "reporte.csv"

// Column headers, in file order.
var header = []string{"ID", "Nombre", "Tipo", "Cantidad", "Ubicacion", "FechaAdquisicion"}

// ErrInvalidDelimiter is returned for delimiters that cannot separate fields.
var ErrInvalidDelimiter = errors.New("invalid delimiter")

// Exporter serializes records as a header line plus one line per record.
// Text fields are always quoted with embedded quotes doubled; ID and
// Cantidad are written bare. A newline inside a text field is written
// as is within the quotes, so such a record spans more than one line.
type Exporter struct {
	Delimiter rune
}

// NewExporter returns an Exporter using delimiter, or DefaultDelimiter
// when delimiter is zero.
func NewExporter(delimiter rune) *Exporter {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Exporter{Delimiter: delimiter}
}

// ParseDelimiter converts a configured delimiter string to a rune. An
// empty string yields DefaultDelimiter; "\t" and "tab" select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return DefaultDelimiter, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || !validDelim(r[0]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r[0], nil
}

func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != 0xFFFD
}

func (e *Exporter) delim() rune {
	if e == nil || e.Delimiter == 0 {
		return DefaultDelimiter
	}
	return e.Delimiter
}

// Export creates or truncates path and writes records to it. The write is
// not atomic; a failure part way leaves a partial file.
func (e *Exporter) Export(records []types.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening report %s: %w", path, err)
	}
	if err := e.Write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report %s: %w", path, err)
	}
	return nil
}

// Write serializes records to w.
func (e *Exporter) Write(w io.Writer, records []types.Record) error {
	d := e.delim()
	if !validDelim(d) {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}
	sep := string(d)

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(header, sep))
	bw.WriteByte('\n')

	for _, r := range records {
		fields := []string{
			strconv.FormatInt(r.ID, 10),
			quote(r.Name),
			quote(r.Category),
			strconv.Itoa(r.Quantity),
			quote(r.Location),
			quote(r.AcquisitionDate),
		}
		bw.WriteString(strings.Join(fields, sep))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// LineError reports a row of an imported file that could not be read.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// utf8BOM is prepended by some spreadsheet programs when they save.
const utf8BOM = "\ufeff"

// Import reads a report in the export format. A leading header row is
// skipped and the ID column is ignored, so imported records get fresh ids. Rows
// that cannot be parsed are skipped and reported as *LineError; a read
// failure of r itself ends the import.
func Import(r io.Reader, delimiter rune) ([]types.Record, []error) {
	return ImportWith(r, delimiter, nil)
}

// ImportWith is Import with an extra check run on every parsed record.
// A record rejected by check is skipped and reported as *LineError.
func ImportWith(r io.Reader, delimiter rune, check func(types.Record) error) ([]types.Record, []error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	if !validDelim(delimiter) {
		return nil, []error{fmt.Errorf("%w: %q", ErrInvalidDelimiter, delimiter)}
	}

	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		records []types.Record
		errs    []error
		first   = true
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				errs = append(errs, &LineError{Line: pe.Line, Err: pe.Err})
				continue
			}
			errs = append(errs, fmt.Errorf("reading report: %w", err))
			break
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			row[0] = strings.TrimPrefix(row[0], utf8BOM)
			if isHeader(row) {
				continue
			}
		}
		rec, err := parseRow(row)
		if err == nil && check != nil {
			err = check(rec)
		}
		if err != nil {
			errs = append(errs, &LineError{Line: line, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), header[0])
}

func parseRow(row []string) (types.Record, error) {
	if len(row) != len(header) {
		return types.Record{}, fmt.Errorf("expected %d fields, got %d", len(header), len(row))
	}
	qty, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return types.Record{}, fmt.Errorf("quantity %q: %w", row[3], err)
	}
	rec := types.Record{
		Name:            row[1],
		Category:        row[2],
		Quantity:        qty,
		Location:        row[4],
		AcquisitionDate: row[5],
	}
	if err := rec.Validate(); err != nil {
		return types.Record{}, err
	}
	return rec, nil
}
