package catalogue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/arloliu/starbin/errs"
)

// ReadCSV returns an iterator over the rows of one or more CSV inputs read as a single
// table.
//
// The first record of the first input is the header. Later inputs continue the table;
// if one starts with a record identical to the header, that record is skipped. A parse
// error is yielded once and ends the iteration.
func ReadCSV(sources ...io.Reader) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		var columns map[string]int
		var header []string

		for si, src := range sources {
			r := csv.NewReader(src)
			r.FieldsPerRecord = -1

			for first := true; ; first = false {
				record, err := r.Read()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					yield(Row{Source: si}, fmt.Errorf("%w: input %d: %w", errs.ErrMalformedRecord, si, err))
					return
				}
				line, _ := r.FieldPos(0)

				if header == nil {
					header = record
					columns = columnIndex(header)

					continue
				}
				if first && slices.Equal(record, header) {
					continue
				}

				if !yield(Row{Source: si, Line: line, columns: columns, record: record}, nil) {
					return
				}
			}
		}
	}
}
