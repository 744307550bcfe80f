package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/mandate/utils"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a header.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyCell is returned when a required value is blank.
	ErrEmptyCell = errors.New("empty cell")
)

// table is a header-addressed CSV file.
type table struct {
	path    string
	columns map[string]int
	rows    [][]string
}

func readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseTable(path, f, required...)
}

func parseTable(path string, r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	t := &table{path: path, columns: make(map[string]int, len(records[0])), rows: records[1:]}
	for i, name := range records[0] {
		t.columns[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, fmt.Errorf("%s: %q: %w", path, name, ErrMissingColumn)
		}
	}
	return t, nil
}

// row is one record of a table; line is 1-based and counts the header.
type row struct {
	t      *table
	fields []string
	line   int
}

func (t *table) each(fn func(row) error) error {
	for i, fields := range t.rows {
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if err := fn(row{t: t, fields: fields, line: i + 2}); err != nil {
			return err
		}
	}
	return nil
}

// str returns the trimmed cell of column name, or "" when the column or
// cell is absent.
func (r row) str(name string) string {
	i, ok := r.t.columns[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r row) errorf(name string, err error) error {
	return fmt.Errorf("%s:%d %s: %w", r.t.path, r.line, name, err)
}

// float parses a cell; ok is false for an empty cell.
func (r row) float(name string) (v float64, ok bool, err error) {
	s := r.str(name)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, r.errorf(name, err)
	}
	return v, true, nil
}

// requiredFloat is float with a blank cell reported as ErrEmptyCell.
func (r row) requiredFloat(name string) (float64, error) {
	v, ok, err := r.float(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, r.errorf(name, ErrEmptyCell)
	}
	return v, nil
}

func (r row) floatPtr(name string) (*float64, error) {
	v, ok, err := r.float(name)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (r row) date(name string) (time.Time, error) {
	s := r.str(name)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, r.errorf(name, err)
	}
	return d, nil
}
