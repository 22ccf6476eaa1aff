package catalogue

import (
	"fmt"
	"iter"

	"github.com/arloliu/starbin/writer"
)

// Encoder streams catalogue entries to a writer in a single pass.
//
// Note: The Encoder is NOT thread-safe.
type Encoder struct {
	w     *writer.Writer
	count int
}

// NewEncoder creates an Encoder appending to w.
func NewEncoder(w *writer.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode appends one entry.
func (e *Encoder) Encode(entry Entry) error {
	start := e.w.Offset()

	for _, v := range [...]float32{entry.X, entry.Y, entry.Z, entry.Luminosity, entry.Temperature} {
		if err := e.w.WriteFloat32(v); err != nil {
			return fmt.Errorf("entry %d at offset %d: %w", e.count, start, err)
		}
	}

	if err := e.w.WriteCString(entry.Name); err != nil {
		return fmt.Errorf("entry %d name at offset %d: %w", e.count, start, err)
	}
	if err := e.w.WriteCString(entry.SpectralClass); err != nil {
		return fmt.Errorf("entry %d spectral class at offset %d: %w", e.count, start, err)
	}

	e.count++

	return nil
}

// EncodeAll appends every entry of seq and returns how many were written by this call.
func (e *Encoder) EncodeAll(seq iter.Seq[Entry]) (int, error) {
	before := e.count
	for entry := range seq {
		if err := e.Encode(entry); err != nil {
			return e.count - before, err
		}
	}

	return e.count - before, nil
}

// Count returns the number of entries encoded so far.
func (e *Encoder) Count() int {
	return e.count
}
