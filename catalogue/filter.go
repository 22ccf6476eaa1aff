package catalogue

import (
	"fmt"
	"math"

	"github.com/arloliu/starbin/errs"
	"github.com/arloliu/starbin/internal/options"
)

// Default selection thresholds.
const (
	DefaultMaxDistance    = 50.0 // parsecs
	DefaultMaxApparentMag = 6.0
	DefaultMaxAbsoluteMag = 1.0
)

// DefaultExclude lists proper names dropped by default. The runtime adds the Sun itself.
var DefaultExclude = []string{"Sol"}

// Filter decides which catalogue rows are kept.
//
// A row is kept when it is close (distance below MaxDistance), visible to the naked eye
// (apparent magnitude below MaxApparentMag) or intrinsically bright (absolute magnitude
// below MaxAbsoluteMag), and its proper name is not excluded.
type Filter struct {
	maxDistance    float64
	maxApparentMag float64
	maxAbsoluteMag float64
	exclude        map[string]struct{}
}

// FilterOption configures a Filter.
type FilterOption = options.Option[*Filter]

// WithMaxDistance sets the distance threshold in parsecs.
func WithMaxDistance(pc float64) FilterOption {
	return options.New(func(f *Filter) error {
		if math.IsNaN(pc) {
			return fmt.Errorf("max distance must be a number")
		}
		f.maxDistance = pc

		return nil
	})
}

// WithMaxApparentMag sets the apparent magnitude threshold.
func WithMaxApparentMag(mag float64) FilterOption {
	return options.New(func(f *Filter) error {
		if math.IsNaN(mag) {
			return fmt.Errorf("max apparent magnitude must be a number")
		}
		f.maxApparentMag = mag

		return nil
	})
}

// WithMaxAbsoluteMag sets the absolute magnitude threshold.
func WithMaxAbsoluteMag(mag float64) FilterOption {
	return options.New(func(f *Filter) error {
		if math.IsNaN(mag) {
			return fmt.Errorf("max absolute magnitude must be a number")
		}
		f.maxAbsoluteMag = mag

		return nil
	})
}

// WithExclude replaces the excluded proper names.
func WithExclude(names ...string) FilterOption {
	return options.NoError(func(f *Filter) {
		f.exclude = make(map[string]struct{}, len(names))
		for _, name := range names {
			f.exclude[name] = struct{}{}
		}
	})
}

// NewFilter creates a Filter with the default thresholds, then applies opts.
func NewFilter(opts ...FilterOption) (*Filter, error) {
	f := &Filter{
		maxDistance:    DefaultMaxDistance,
		maxApparentMag: DefaultMaxApparentMag,
		maxAbsoluteMag: DefaultMaxAbsoluteMag,
	}
	opts = append([]FilterOption{WithExclude(DefaultExclude...)}, opts...)
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	return f, nil
}

// Select derives the Star of a row and reports whether it is kept.
//
// Rows without dist, absmag or ci return errs.ErrMalformedRecord; callers skip and count
// them. A missing apparent magnitude only means the row cannot qualify as visible.
func (f *Filter) Select(row Row) (Star, bool, error) {
	for _, column := range [...]string{"dist", "absmag", "ci"} {
		if _, ok := row.Get(column); !ok {
			return Star{}, false, fmt.Errorf("%w: line %d: missing %q", errs.ErrMalformedRecord, row.Line, column)
		}
	}

	dist, err := row.requireFloat("dist")
	if err != nil {
		return Star{}, false, err
	}
	absMag, err := row.requireFloat("absmag")
	if err != nil {
		return Star{}, false, err
	}
	mag, hasMag, err := row.Float("mag")
	if err != nil {
		return Star{}, false, err
	}

	keep := dist < f.maxDistance || (hasMag && mag < f.maxApparentMag) || absMag < f.maxAbsoluteMag
	if proper, ok := row.Get("proper"); ok {
		if _, excluded := f.exclude[proper]; excluded {
			keep = false
		}
	}
	if !keep {
		return Star{}, false, nil
	}

	star, err := Derive(row)
	if err != nil {
		return Star{}, false, err
	}

	return star, true, nil
}
