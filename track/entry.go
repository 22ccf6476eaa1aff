package track

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/starbin/format"
	"github.com/arloliu/starbin/writer"
)

// EntrySize is the encoded size of one Entry.
const EntrySize = 5*4 + 1

// MaxTrackEntries is the largest track a grid can hold; track counts are u16.
const MaxTrackEntries = math.MaxUint16

// Entry is one evolutionary state of a star.
type Entry struct {
	Independent float32 // star age in years for grid tracks, initial mass for isochrones
	Mass        float32 // current mass in solar masses
	Luminosity  float32 // solar luminosities
	Temperature float32 // kelvin
	Radius      float32 // solar radii
	Phase       int8
}

// Sample is an evolutionary state as it appears in a MIST table: log10 quantities and a
// floating-point phase code.
type Sample struct {
	Independent float64
	Mass        float64
	LogL        float64
	LogTeff     float64
	LogR        float64
	Phase       float64
}

// Entry converts the sample to its encoded form. The phase is truncated toward zero and
// must fit int8, otherwise errs.ErrEncodingRange is returned.
func (s Sample) Entry() (Entry, error) {
	bits, err := format.I8.FromFloat(s.Phase)
	if err != nil {
		return Entry{}, fmt.Errorf("phase: %w", err)
	}

	return Entry{
		Independent: float32(s.Independent),
		Mass:        float32(s.Mass),
		Luminosity:  float32(math.Pow(10, s.LogL)),
		Temperature: float32(math.Pow(10, s.LogTeff)),
		Radius:      float32(math.Pow(10, s.LogR)),
		Phase:       int8(bits), //nolint:gosec
	}, nil
}

// SortEntries sorts entries ascending by Independent, keeping the input order of ties.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Independent, b.Independent)
	})
}

func writeEntry(w *writer.Writer, e Entry) error {
	for _, v := range [...]float32{e.Independent, e.Mass, e.Luminosity, e.Temperature, e.Radius} {
		if err := w.WriteFloat32(v); err != nil {
			return err
		}
	}

	return w.WriteInt8(e.Phase)
}
