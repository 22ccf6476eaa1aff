package track

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/starbin/errs"
	"github.com/arloliu/starbin/writer"
)

// Isochrone is the set of stellar states sharing one age.
type Isochrone struct {
	Key     float32 // log10 age in years
	Entries []Entry
}

// IsochroneSet groups entries by isochrone key as they are read.
//
// Keys are compared after rounding to f32, the precision they are stored with, so source
// ages that differ only beyond f32 precision share a group.
type IsochroneSet struct {
	groups map[uint32]*Isochrone
}

// NewIsochroneSet creates an empty set.
func NewIsochroneSet() *IsochroneSet {
	return &IsochroneSet{groups: make(map[uint32]*Isochrone)}
}

// Add appends an entry to the group of key, creating the group on first use.
func (s *IsochroneSet) Add(key float64, e Entry) {
	k := float32(key)
	bits := math.Float32bits(k)
	g, ok := s.groups[bits]
	if !ok {
		g = &Isochrone{Key: k}
		s.groups[bits] = g
	}
	g.Entries = append(g.Entries, e)
}

// Len returns the number of groups.
func (s *IsochroneSet) Len() int {
	return len(s.groups)
}

// Finalize returns the groups sorted by key with their entries stable-sorted by
// Independent. The set must not be used afterwards.
func (s *IsochroneSet) Finalize() []Isochrone {
	out := make([]Isochrone, 0, len(s.groups))
	for _, g := range s.groups {
		SortEntries(g.Entries)
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b Isochrone) int {
		return cmp.Compare(a.Key, b.Key)
	})
	s.groups = nil

	return out
}

// IsochroneEncoder writes the isochrone format.
type IsochroneEncoder struct {
	w *writer.Writer
}

// NewIsochroneEncoder creates an IsochroneEncoder appending to w.
func NewIsochroneEncoder(w *writer.Writer) *IsochroneEncoder {
	return &IsochroneEncoder{w: w}
}

// Encode writes groups in the order given and returns the number of entries written.
// Use IsochroneSet.Finalize to obtain sorted groups.
func (e *IsochroneEncoder) Encode(groups []Isochrone) (int, error) {
	if err := e.writeCount(len(groups)); err != nil {
		return 0, fmt.Errorf("group count: %w", err)
	}

	total := 0
	for i, g := range groups {
		if err := e.w.WriteFloat32(g.Key); err != nil {
			return total, err
		}
		if err := e.writeCount(len(g.Entries)); err != nil {
			return total, fmt.Errorf("group %d (key %g): %w", i, g.Key, err)
		}
		for _, entry := range g.Entries {
			if err := writeEntry(e.w, entry); err != nil {
				return total, fmt.Errorf("group %d (key %g): %w", i, g.Key, err)
			}
		}
		total += len(g.Entries)
	}

	return total, nil
}

func (e *IsochroneEncoder) writeCount(n int) error {
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: count %d", errs.ErrEncodingRange, n)
	}

	return e.w.WriteUint32(uint32(n)) //nolint:gosec
}
