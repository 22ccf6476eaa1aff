package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/starbin/catalogue"
	"github.com/arloliu/starbin/internal/hash"
	"github.com/arloliu/starbin/report"
	"github.com/arloliu/starbin/track"
)

// Format names an artifact layout.
type Format string

const (
	FormatAuto       Format = "auto"
	FormatCatalogue  Format = "catalogue"
	FormatTracks     Format = "tracks"
	FormatIsochrones Format = "isochrones"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCatalogue, FormatTracks, FormatIsochrones:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q, want catalogue, tracks, isochrones or auto", s)
	}
}

// DetectFormat guesses the format of an artifact from its file name.
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "catalog"):
		return FormatCatalogue, nil
	case strings.Contains(name, "evolution"), strings.Contains(name, "iso"):
		return FormatIsochrones, nil
	case strings.Contains(name, "track"), strings.Contains(name, "grid"):
		return FormatTracks, nil
	default:
		return "", fmt.Errorf("cannot tell the format of %s from its name, pass --format", path)
	}
}

// Inspection is a decoded artifact.
type Inspection struct {
	Path    string
	Format  Format
	Size    int64
	Digest  uint64
	Entries int

	Stars      []catalogue.Entry  // FormatCatalogue
	Grid       *track.DecodedGrid // FormatTracks
	Isochrones []track.Isochrone  // FormatIsochrones
}

// Inspect reads and fully decodes the artifact at path.
func Inspect(path string, format Format) (*Inspection, error) {
	if format == FormatAuto {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	in := &Inspection{
		Path:   path,
		Format: format,
		Size:   int64(len(data)),
		Digest: hash.Sum64(data),
	}

	switch format {
	case FormatCatalogue:
		in.Stars, err = catalogue.Decode(data)
		in.Entries = len(in.Stars)
	case FormatTracks:
		in.Grid, err = track.DecodeGrid(data)
		if in.Grid != nil {
			for _, t := range in.Grid.Tracks {
				in.Entries += len(t)
			}
		}
	case FormatIsochrones:
		in.Isochrones, err = track.DecodeIsochrones(data)
		for _, g := range in.Isochrones {
			in.Entries += len(g.Entries)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return in, nil
}

// Report builds the report of the decoded contents.
func (in *Inspection) Report() *report.Report {
	switch in.Format {
	case FormatCatalogue:
		r := report.ForCatalogue()
		for _, e := range in.Stars {
			r.ObserveStar(e)
		}

		return r
	case FormatTracks:
		r := report.ForTracks("Track grid")
		for _, t := range in.Grid.Tracks {
			r.ObserveTrack(t)
		}

		return r
	default:
		r := report.ForTracks("Isochrones")
		for _, g := range in.Isochrones {
			r.ObserveTrack(g.Entries)
		}

		return r
	}
}
