package track

import (
	"fmt"
	"math"

	"github.com/arloliu/starbin/endian"
	"github.com/arloliu/starbin/errs"
)

// DecodedGrid is a track grid read back from its binary form.
type DecodedGrid struct {
	Grid

	Pointers []uint32  // row-major track offsets
	Tracks   [][]Entry // row-major, parallel to Pointers
}

// Track returns the track of cell [metallicity][mass].
func (d *DecodedGrid) Track(metallicity, mass int) []Entry {
	return d.Tracks[metallicity*len(d.Masses)+mass]
}

// DecodeGrid parses a track grid. Every pointer must land inside data and every track
// must fit; violations return errs.ErrBadPointer or errs.ErrTruncated.
func DecodeGrid(data []byte) (*DecodedGrid, error) {
	c := cursor{data: data, engine: endian.GetBigEndianEngine()}
	d := &DecodedGrid{}

	var err error
	if d.Metallicities, err = c.axis("metallicity"); err != nil {
		return nil, err
	}
	if d.Masses, err = c.axis("mass"); err != nil {
		return nil, err
	}

	cells := len(d.Metallicities) * len(d.Masses)
	if !c.has(4 * cells) {
		return nil, fmt.Errorf("%w: pointer table of %d cells at offset %d", errs.ErrTruncated, cells, c.off)
	}
	d.Pointers = make([]uint32, cells)
	for i := range d.Pointers {
		d.Pointers[i] = c.u32()
	}

	d.Tracks = make([][]Entry, cells)
	for i, ptr := range d.Pointers {
		if int64(ptr) < int64(c.off) || int64(ptr) >= int64(len(data)) {
			return nil, fmt.Errorf("%w: cell %d points at %d, data spans [%d, %d)", errs.ErrBadPointer, i, ptr, c.off, len(data))
		}

		tc := cursor{data: data, off: int(ptr), engine: c.engine}
		if !tc.has(2) {
			return nil, fmt.Errorf("%w: cell %d count at offset %d", errs.ErrTruncated, i, ptr)
		}
		n := int(tc.u16())
		if d.Tracks[i], err = tc.entries(n); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
	}

	return d, nil
}

// DecodeIsochrones parses an isochrone file.
func DecodeIsochrones(data []byte) ([]Isochrone, error) {
	c := cursor{data: data, engine: endian.GetBigEndianEngine()}

	if !c.has(4) {
		return nil, fmt.Errorf("%w: group count", errs.ErrTruncated)
	}
	count := int(c.u32())

	// every group takes at least 8 bytes
	groups := make([]Isochrone, 0, min(count, len(data)/8))
	for i := range count {
		if !c.has(8) {
			return groups, fmt.Errorf("%w: group %d header at offset %d", errs.ErrTruncated, i, c.off)
		}
		g := Isochrone{Key: math.Float32frombits(c.u32())}
		n := int(c.u32())

		var err error
		if g.Entries, err = c.entries(n); err != nil {
			return groups, fmt.Errorf("group %d: %w", i, err)
		}
		groups = append(groups, g)
	}

	if c.off != len(data) {
		return groups, fmt.Errorf("%w: %d trailing bytes", errs.ErrTruncated, len(data)-c.off)
	}

	return groups, nil
}

type cursor struct {
	data   []byte
	off    int
	engine endian.EndianEngine
}

func (c *cursor) has(n int) bool {
	return n >= 0 && len(c.data)-c.off >= n
}

func (c *cursor) u16() uint16 {
	v := c.engine.Uint16(c.data[c.off:])
	c.off += 2

	return v
}

func (c *cursor) u32() uint32 {
	v := c.engine.Uint32(c.data[c.off:])
	c.off += 4

	return v
}

func (c *cursor) f32() float32 {
	return math.Float32frombits(c.u32())
}

func (c *cursor) axis(name string) ([]float32, error) {
	if !c.has(4) {
		return nil, fmt.Errorf("%w: %s count at offset %d", errs.ErrTruncated, name, c.off)
	}
	n := int(c.u32())
	if !c.has(4 * n) {
		return nil, fmt.Errorf("%w: %d %s values at offset %d", errs.ErrTruncated, n, name, c.off)
	}

	values := make([]float32, n)
	for i := range values {
		values[i] = c.f32()
	}

	return values, nil
}

func (c *cursor) entries(n int) ([]Entry, error) {
	if !c.has(n * EntrySize) {
		return nil, fmt.Errorf("%w: %d entries at offset %d", errs.ErrTruncated, n, c.off)
	}

	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			Independent: c.f32(),
			Mass:        c.f32(),
			Luminosity:  c.f32(),
			Temperature: c.f32(),
			Radius:      c.f32(),
			Phase:       int8(c.data[c.off]), //nolint:gosec
		}
		c.off++
	}

	return entries, nil
}
