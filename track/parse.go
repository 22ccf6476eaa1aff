package track

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/starbin/errs"
)

// EEP columns read by ParseEEP.
var eepColumns = [...]string{"star_age", "star_mass", "log_L", "log_Teff", "log_R", "phase"}

// ISO column indices read by ParseISO, in the MIST basic isochrone layout.
const (
	isoAge         = 1
	isoInitialMass = 2
	isoStarMass    = 3
	isoLogL        = 7
	isoLogTeff     = 10
	isoLogR        = 11
	isoPhase       = 24
	isoMinColumns  = isoPhase + 1
)

const maxLineSize = 1 << 20

// ParseEEP reads a MIST .track.eep table. Independent is the star age.
//
// The column layout comes from the last comment line that names star_age. Any data line
// that is short or holds a non-number in a used column fails with
// errs.ErrMalformedRecord.
func ParseEEP(r io.Reader) ([]Sample, error) {
	var (
		samples []Sample
		index   map[string]int
		cols    [len(eepColumns)]int
		need    int
	)

	err := scanLines(r, func(line int, text string) error {
		if strings.HasPrefix(text, "#") {
			fields := strings.Fields(strings.TrimPrefix(text, "#"))
			if !slices.Contains(fields, "star_age") {
				return nil
			}
			index = make(map[string]int, len(fields))
			for i, f := range fields {
				index[f] = i
			}
			need = 0
			for i, name := range eepColumns {
				c, ok := index[name]
				if !ok {
					return fmt.Errorf("%w: line %d: header lacks column %q", errs.ErrMalformedRecord, line, name)
				}
				cols[i] = c
				need = max(need, c+1)
			}

			return nil
		}

		if index == nil {
			return fmt.Errorf("%w: line %d: data before column header", errs.ErrMalformedRecord, line)
		}

		fields := strings.Fields(text)
		if len(fields) < need {
			return fmt.Errorf("%w: line %d: %d columns, want at least %d", errs.ErrMalformedRecord, line, len(fields), need)
		}

		var v [len(eepColumns)]float64
		for i, c := range cols {
			f, err := strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return fmt.Errorf("%w: line %d column %s: %q", errs.ErrMalformedRecord, line, eepColumns[i], fields[c])
			}
			v[i] = f
		}
		samples = append(samples, Sample{
			Independent: v[0],
			Mass:        v[1],
			LogL:        v[2],
			LogTeff:     v[3],
			LogR:        v[4],
			Phase:       v[5],
		})

		return nil
	})

	return samples, err
}

// IsoRow is one data line of an isochrone table.
type IsoRow struct {
	Line   int
	LogAge float64
	Sample // Independent is the initial mass
}

// ParseISO returns an iterator over the data lines of a MIST basic .iso table. A
// malformed line is yielded as an errs.ErrMalformedRecord error and ends the iteration.
func ParseISO(r io.Reader) iter.Seq2[IsoRow, error] {
	return func(yield func(IsoRow, error) bool) {
		stopped := false
		err := scanLines(r, func(line int, text string) error {
			if strings.HasPrefix(text, "#") {
				return nil
			}

			fields := strings.Fields(text)
			if len(fields) < isoMinColumns {
				return fmt.Errorf("%w: line %d: %d columns, want at least %d", errs.ErrMalformedRecord, line, len(fields), isoMinColumns)
			}

			row := IsoRow{Line: line}
			for _, col := range [...]struct {
				idx int
				dst *float64
			}{
				{isoAge, &row.LogAge},
				{isoInitialMass, &row.Independent},
				{isoStarMass, &row.Mass},
				{isoLogL, &row.LogL},
				{isoLogTeff, &row.LogTeff},
				{isoLogR, &row.LogR},
				{isoPhase, &row.Phase},
			} {
				v, err := strconv.ParseFloat(fields[col.idx], 64)
				if err != nil {
					return fmt.Errorf("%w: line %d column %d: %q", errs.ErrMalformedRecord, line, col.idx, fields[col.idx])
				}
				*col.dst = v
			}
			if math.IsNaN(row.LogAge) || math.IsInf(row.LogAge, 0) {
				return fmt.Errorf("%w: line %d: age %g is not finite", errs.ErrMalformedRecord, line, row.LogAge)
			}

			if !yield(row, nil) {
				stopped = true
				return errStop
			}

			return nil
		})
		if err != nil && !stopped {
			yield(IsoRow{}, err)
		}
	}
}

var errStop = errors.New("stop")

// scanLines calls fn for every non-blank line with surrounding space trimmed.
func scanLines(r io.Reader, fn func(line int, text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := fn(line, text); err != nil {
			return err
		}
	}

	return sc.Err()
}
