// Package collision detects repeated star names while a catalogue is being encoded.
package collision

import "github.com/cespare/xxhash/v2"

// Tracker records the names of encoded stars by their xxHash64 and reports repeats.
// Distinct names sharing a hash are kept apart.
type Tracker struct {
	names      map[uint64][]string
	duplicates int
	count      int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{names: make(map[uint64][]string)}
}

// Track records name and returns how many times it was seen before.
func (t *Tracker) Track(name string) int {
	t.count++

	h := xxhash.Sum64String(name)
	bucket := t.names[h]
	seen := 0
	for _, n := range bucket {
		if n == name {
			seen++
		}
	}
	t.names[h] = append(bucket, name)

	if seen > 0 {
		t.duplicates++
	}

	return seen
}

// HasCollision reports whether two distinct names hashed alike.
func (t *Tracker) HasCollision() bool {
	for _, bucket := range t.names {
		for _, n := range bucket[1:] {
			if n != bucket[0] {
				return true
			}
		}
	}

	return false
}

// Duplicates returns the number of Track calls whose name had been seen before.
func (t *Tracker) Duplicates() int {
	return t.duplicates
}

// Count returns the number of Track calls.
func (t *Tracker) Count() int {
	return t.count
}

// Reset clears all tracked names.
func (t *Tracker) Reset() {
	clear(t.names)
	t.duplicates = 0
	t.count = 0
}
