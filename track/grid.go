package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/starbin/errs"
	"github.com/arloliu/starbin/format"
	"github.com/arloliu/starbin/internal/options"
	"github.com/arloliu/starbin/writer"
)

// Grid is the metallicity × mass axis pair of a track grid. Axis order is preserved in
// the output and is never sorted.
type Grid struct {
	Metallicities []float32
	Masses        []float32
}

// Cells returns the number of grid cells.
func (g Grid) Cells() int {
	return len(g.Metallicities) * len(g.Masses)
}

// CellSource supplies the track of one grid cell. It is called exactly once per cell, in
// row-major order. A cell without input returns an error wrapping errs.ErrMissingInput.
type CellSource interface {
	Track(metallicity, mass int) ([]Entry, error)
}

// CellSourceFunc adapts a function to CellSource.
type CellSourceFunc func(metallicity, mass int) ([]Entry, error)

// Track implements CellSource.
func (f CellSourceFunc) Track(metallicity, mass int) ([]Entry, error) {
	return f(metallicity, mass)
}

// MissingPolicy selects what the grid encoder does with a cell whose input is missing.
type MissingPolicy uint8

const (
	// MissingFail aborts the encode.
	MissingFail MissingPolicy = iota
	// MissingEmpty writes a zero-count track for the cell.
	MissingEmpty
)

// ParseMissingPolicy parses "fail" or "empty".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "", "fail":
		return MissingFail, nil
	case "empty":
		return MissingEmpty, nil
	default:
		return MissingFail, fmt.Errorf("unknown missing-cell policy %q, want fail or empty", s)
	}
}

func (p MissingPolicy) String() string {
	switch p {
	case MissingFail:
		return "fail"
	case MissingEmpty:
		return "empty"
	default:
		return fmt.Sprintf("MissingPolicy(%d)", uint8(p))
	}
}

// GridStats summarizes an encoded grid.
type GridStats struct {
	Cells      int
	Entries    int
	EmptyCells int // cells written with zero entries, including missing ones
	Missing    int // cells substituted under MissingEmpty
}

// GridEncoder writes a track grid.
type GridEncoder struct {
	w         *writer.Writer
	missing   MissingPolicy
	onMissing func(metallicity, mass int, err error)
}

// GridOption configures a GridEncoder.
type GridOption = options.Option[*GridEncoder]

// WithMissingPolicy sets the missing-cell policy. The default is MissingFail.
func WithMissingPolicy(p MissingPolicy) GridOption {
	return options.New(func(e *GridEncoder) error {
		if p > MissingEmpty {
			return fmt.Errorf("invalid missing-cell policy %d", uint8(p))
		}
		e.missing = p

		return nil
	})
}

// WithMissingHandler registers fn to be told about every cell substituted under
// MissingEmpty.
func WithMissingHandler(fn func(metallicity, mass int, err error)) GridOption {
	return options.NoError(func(e *GridEncoder) {
		e.onMissing = fn
	})
}

// NewGridEncoder creates a GridEncoder appending to w.
func NewGridEncoder(w *writer.Writer, opts ...GridOption) (*GridEncoder, error) {
	e := &GridEncoder{w: w, missing: MissingFail}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Encode writes the axes, the pointer table and then every cell's track, pulling
// tracks from src one at a time. Each track is stable-sorted by Independent in place
// before it is written.
func (e *GridEncoder) Encode(grid Grid, src CellSource) (GridStats, error) {
	var stats GridStats

	if err := e.writeAxis("metallicity", grid.Metallicities); err != nil {
		return stats, err
	}
	if err := e.writeAxis("mass", grid.Masses); err != nil {
		return stats, err
	}

	pointers := make([]*writer.Patch, 0, grid.Cells())
	for range grid.Cells() {
		p, err := e.w.ReservePointer()
		if err != nil {
			return stats, err
		}
		pointers = append(pointers, p)
	}

	for i := range grid.Metallicities {
		for j := range grid.Masses {
			entries, err := src.Track(i, j)
			if err != nil {
				if e.missing != MissingEmpty || !errors.Is(err, errs.ErrMissingInput) {
					return stats, fmt.Errorf("cell [%d][%d]: %w", i, j, err)
				}
				if e.onMissing != nil {
					e.onMissing(i, j, err)
				}
				entries = nil
				stats.Missing++
			}

			if err := pointers[i*len(grid.Masses)+j].Link(); err != nil {
				return stats, fmt.Errorf("cell [%d][%d]: %w", i, j, err)
			}
			if err := e.writeTrack(entries); err != nil {
				return stats, fmt.Errorf("cell [%d][%d]: %w", i, j, err)
			}

			stats.Cells++
			stats.Entries += len(entries)
			if len(entries) == 0 {
				stats.EmptyCells++
			}
		}
	}

	return stats, nil
}

func (e *GridEncoder) writeAxis(name string, values []float32) error {
	if uint64(len(values)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d %s values", errs.ErrEncodingRange, len(values), name)
	}
	if err := e.w.WriteUint32(uint32(len(values))); err != nil { //nolint:gosec
		return err
	}
	for _, v := range values {
		if err := e.w.WriteFloat32(v); err != nil {
			return err
		}
	}

	return nil
}

func (e *GridEncoder) writeTrack(entries []Entry) error {
	if len(entries) > MaxTrackEntries {
		return fmt.Errorf("%w: track has %d entries, limit %d", errs.ErrEncodingRange, len(entries), MaxTrackEntries)
	}

	count, err := e.w.ReserveScalar(format.U16)
	if err != nil {
		return err
	}

	SortEntries(entries)
	for _, entry := range entries {
		if err := writeEntry(e.w, entry); err != nil {
			return err
		}
	}

	return count.SetInt(int64(len(entries)))
}
