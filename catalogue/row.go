package catalogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/starbin/errs"
)

// Row is one record of a header-keyed table. Empty cells read as absent.
type Row struct {
	Source int // index of the input the row came from
	Line   int // line of the record within its input

	columns map[string]int
	record  []string
}

// NewRow builds a Row from a header and a record. Cells missing from a short record
// read as absent.
func NewRow(header, record []string) Row {
	return Row{columns: columnIndex(header), record: record}
}

func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	return columns
}

// Get returns the cell of the named column, and false when the column is unknown or the
// cell is empty.
func (r Row) Get(column string) (string, bool) {
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) || r.record[i] == "" {
		return "", false
	}

	return r.record[i], true
}

// Float parses the named column. The bool is false when the cell is absent; a present
// cell that is not a number returns errs.ErrMalformedRecord.
func (r Row) Float(column string) (float64, bool, error) {
	s, ok := r.Get(column)
	if !ok {
		return 0, false, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: line %d column %q: %q is not a number", errs.ErrMalformedRecord, r.Line, column, s)
	}

	return v, true, nil
}

// requireFloat is Float for columns that must be present.
func (r Row) requireFloat(column string) (float64, error) {
	v, ok, err := r.Float(column)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: line %d: missing %q", errs.ErrMalformedRecord, r.Line, column)
	}

	return v, nil
}
