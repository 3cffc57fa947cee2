// Package sheet reads and writes the destination spreadsheets (xlsx or csv)
// and maps their rows to domain values.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"travel_planner/internal/domain"
)

// Table is a header row plus data rows, all cells as text.
type Table struct {
	Header []string
	Rows   [][]string
}

var ErrUnsupportedFormat = errors.New("sheet: unsupported file format")

// ReadFile picks the decoder by extension.
func ReadFile(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return Decode(path, b)
}

// Decode parses b according to the extension of name.
func Decode(name string, b []byte) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(b))
	case ".csv":
		return ReadCSV(bytes.NewReader(b))
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadXLSX reads the first worksheet; the first row is the header.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read rows: %w", err)
	}
	return fromRows(rows), nil
}

// ReadCSV reads a comma-separated file with a header row.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows), nil
}

func fromRows(rows [][]string) Table {
	if len(rows) == 0 {
		return Table{}
	}
	t := Table{Header: append([]string(nil), rows[0]...)}
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		row := make([]string, len(t.Header))
		copy(row, r) // short rows are padded, extra cells dropped
		t.Rows = append(t.Rows, row)
	}
	return t
}

func blank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Drop returns a copy without the named columns; names absent from the
// header are ignored. Matching uses the normalized header.
func (t Table) Drop(cols ...string) Table {
	drop := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		drop[NormalizeHeader(c)] = struct{}{}
	}
	var keep []int
	out := Table{}
	for i, h := range t.Header {
		if _, ok := drop[NormalizeHeader(h)]; ok {
			continue
		}
		keep = append(keep, i)
		out.Header = append(out.Header, h)
	}
	for _, r := range t.Rows {
		row := make([]string, len(keep))
		for j, i := range keep {
			if i < len(r) {
				row[j] = r[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Records returns one map per row keyed by normalized header.
func (t Table) Records() []map[string]string {
	keys := make([]string, len(t.Header))
	for i, h := range t.Header {
		keys[i] = NormalizeHeader(h)
	}
	out := make([]map[string]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		m := make(map[string]string, len(keys))
		for i, k := range keys {
			if k == "" || i >= len(r) {
				continue
			}
			m[k] = r[i]
		}
		out = append(out, m)
	}
	return out
}

// NormalizeHeader lowercases, trims and turns spaces/dashes into underscores.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// WriteXLSX writes the table to a single "Sheet1" workbook. Category columns
// are stored as numbers when they parse.
func (t Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheetName = "Sheet1"

	numeric := make([]bool, len(t.Header))
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
		_, numeric[i] = domain.ParseCategory(NormalizeHeader(h))
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for ri, r := range t.Rows {
		cells := make([]any, len(r))
		for i, c := range r {
			cells[i] = c
			if i < len(numeric) && numeric[i] {
				if v, err := strconv.ParseFloat(strings.TrimSpace(c), 64); err == nil {
					cells[i] = v
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// SaveAs writes the table as xlsx, replacing path atomically.
func (t Table) SaveAs(path string) error {
	var buf bytes.Buffer
	if err := t.WriteXLSX(&buf); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sheet-*.xlsx")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
