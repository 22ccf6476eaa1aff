package track

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/multierr"

	"github.com/arloliu/starbin/compress"
	"github.com/arloliu/starbin/errs"
)

// DirSource reads grid cells from the .track.eep files a Manifest points at.
type DirSource struct {
	manifest *Manifest
	lastPath string
}

var _ CellSource = (*DirSource)(nil)

// NewDirSource creates a CellSource over m.
func NewDirSource(m *Manifest) *DirSource {
	return &DirSource{manifest: m}
}

// LastPath returns the file read by the most recent Track call.
func (s *DirSource) LastPath() string {
	return s.lastPath
}

// Track reads, parses and converts the cell's track file. A cell file that does not
// exist under any compression suffix returns errs.ErrMissingInput.
func (s *DirSource) Track(metallicity, mass int) (entries []Entry, err error) {
	want := s.manifest.Path(metallicity, mass)
	s.lastPath = want

	path, err := compress.Resolve(want)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingInput, want)
		}

		return nil, err
	}
	s.lastPath = path

	rc, err := compress.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, rc.Close())
	}()

	samples, err := ParseEEP(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	entries = make([]Entry, len(samples))
	for i, sample := range samples {
		if entries[i], err = sample.Entry(); err != nil {
			return nil, fmt.Errorf("%s: sample %d: %w", path, i, err)
		}
	}

	return entries, nil
}
