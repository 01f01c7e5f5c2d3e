// Package csvcodec is the single CSV layer shared by the bills,
// customers, commission, and inventory import/export flows. Parsing and
// writing sit on stdlib encoding/csv; this package adds the
// header-mapped field access and the per-row error reporting the import
// endpoints surface to the dashboard.
package csvcodec

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Row is one CSV record's fields.
type Row []string

// Record is one parsed data row together with the line it started on in
// the source file, so import errors point at the file the user uploaded
// even when earlier lines were blank or malformed.
type Record struct {
	Line   int
	Fields Row
}

// RowError reports a record that could not be parsed or applied. Import
// flows collect these and report them per row instead of aborting the
// batch.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// Parse reads CSV text. The first record is returned as the header.
// Blank lines are skipped; a malformed record yields a RowError carrying
// its source line and parsing continues with the next record. Quoted
// fields may span lines, so exports with embedded newlines round-trip.
func Parse(raw string) (header Row, records []Record, errs []RowError) {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1

	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line := pe.StartLine
				if line == 0 {
					line = pe.Line
				}
				errs = append(errs, RowError{Line: line, Err: pe.Err.Error()})
				continue
			}
			errs = append(errs, RowError{Err: err.Error()})
			continue
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		line, _ := r.FieldPos(0)
		if header == nil {
			header = fields
			continue
		}
		records = append(records, Record{Line: line, Fields: fields})
	}
	return header, records, errs
}

// Write serializes a header plus rows to CSV text, quoting fields on
// demand per encoding/csv.
func Write(header Row, rows []Row) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(header)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
	return b.String()
}

// Columns maps lowercased header names to their position so import
// flows can read fields by name regardless of column order.
type Columns map[string]int

func ColumnIndex(header Row) Columns {
	col := Columns{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}

// Get returns the named field of a row, or "" when the column is absent
// or the row is short.
func (c Columns) Get(row Row, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
