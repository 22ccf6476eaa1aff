package track

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arloliu/starbin/errs"
)

// Manifest describes a track grid on disk: its axes and where each cell's .track.eep
// file lives.
//
//	dir = "MIST_v1.2_vvcrit0.4_EEPS"
//	pattern = "feh_{feh}/{mass}M.track.eep"
//	metallicities = [-0.5, 0.0, 0.25]
//	masses = [0.1, 0.5, 1.0, 2.0]
//
// In the pattern, {feh} expands to the MIST metallicity label (p0.00, m0.25) and {mass}
// to the mass in hundredths of a solar mass, zero padded to five digits (00100 for 1.0).
// A cell file may also exist with a compression suffix (.gz, .zst, .sz, .lz4).
type Manifest struct {
	Dir           string    `toml:"dir"`
	Pattern       string    `toml:"pattern"`
	Metallicities []float64 `toml:"metallicities"`
	Masses        []float64 `toml:"masses"`
}

// LoadManifest reads and validates a TOML manifest. A relative Dir is taken relative to
// the manifest's own directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", errs.ErrInvalidManifest, path, err)
	}

	if !filepath.IsAbs(m.Dir) {
		m.Dir = filepath.Join(filepath.Dir(path), m.Dir)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &m, nil
}

// Validate checks that the axes are non-empty and finite and that the pattern tells
// cells apart.
func (m *Manifest) Validate() error {
	if len(m.Metallicities) == 0 || len(m.Masses) == 0 {
		return fmt.Errorf("%w: both axes need at least one value", errs.ErrInvalidManifest)
	}
	for _, axis := range [...]struct {
		name   string
		values []float64
	}{{"metallicities", m.Metallicities}, {"masses", m.Masses}} {
		for i, v := range axis.values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d] = %g", errs.ErrInvalidManifest, axis.name, i, v)
			}
			if math.Abs(v) > math.MaxFloat32 {
				return fmt.Errorf("%w: %s[%d] = %g overflows f32", errs.ErrInvalidManifest, axis.name, i, v)
			}
		}
	}
	for i, v := range m.Masses {
		if v <= 0 {
			return fmt.Errorf("%w: masses[%d] = %g must be positive", errs.ErrInvalidManifest, i, v)
		}
	}

	if !strings.Contains(m.Pattern, "{mass}") {
		return fmt.Errorf("%w: pattern %q lacks {mass}", errs.ErrInvalidManifest, m.Pattern)
	}
	if len(m.Metallicities) > 1 && !strings.Contains(m.Pattern, "{feh}") {
		return fmt.Errorf("%w: pattern %q lacks {feh} with %d metallicities", errs.ErrInvalidManifest, m.Pattern, len(m.Metallicities))
	}

	return nil
}

// Grid returns the manifest axes in f32.
func (m *Manifest) Grid() Grid {
	g := Grid{
		Metallicities: make([]float32, len(m.Metallicities)),
		Masses:        make([]float32, len(m.Masses)),
	}
	for i, v := range m.Metallicities {
		g.Metallicities[i] = float32(v)
	}
	for i, v := range m.Masses {
		g.Masses[i] = float32(v)
	}

	return g
}

// Path returns the uncompressed file path of cell [metallicity][mass].
func (m *Manifest) Path(metallicity, mass int) string {
	name := strings.NewReplacer(
		"{feh}", FehLabel(m.Metallicities[metallicity]),
		"{mass}", MassLabel(m.Masses[mass]),
	).Replace(m.Pattern)

	return filepath.Join(m.Dir, name)
}

// FehLabel formats [Fe/H] the way MIST names its grids: p0.00, m0.25.
func FehLabel(feh float64) string {
	sign := "p"
	if feh < 0 {
		sign = "m"
	}

	return fmt.Sprintf("%s%.2f", sign, math.Abs(feh))
}

// MassLabel formats a mass the way MIST names its track files: 00100 for 1.0.
func MassLabel(mass float64) string {
	return fmt.Sprintf("%05d", int64(math.Round(mass*100)))
}
