package build

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/arloliu/starbin/compress"
	"github.com/arloliu/starbin/internal/config"
	"github.com/arloliu/starbin/report"
	"github.com/arloliu/starbin/track"
	"github.com/arloliu/starbin/writer"
)

// Tracks converts the .track.eep files named by a grid manifest into the track grid.
func Tracks(cfg config.TracksConfig, opts Options) (Result, error) {
	logger := opts.logger()

	manifest, err := track.LoadManifest(cfg.Manifest)
	if err != nil {
		return Result{}, err
	}
	policy, err := track.ParseMissingPolicy(cfg.Missing)
	if err != nil {
		return Result{}, err
	}

	var rep *report.Report
	if opts.Report {
		rep = report.ForTracks("Track grid")
	}

	grid := manifest.Grid()
	logger.Infow("encoding track grid",
		"manifest", cfg.Manifest,
		"metallicities", len(grid.Metallicities),
		"masses", len(grid.Masses),
		"missing", policy.String(),
	)

	var stats track.GridStats
	res, err := emit(cfg.Output, opts, func(w *writer.Writer) error {
		dir := track.NewDirSource(manifest)
		src := track.CellSourceFunc(func(i, j int) ([]track.Entry, error) {
			entries, err := dir.Track(i, j)
			if err != nil {
				return nil, err
			}
			logger.Debugw("cell",
				"feh", manifest.Metallicities[i],
				"mass", manifest.Masses[j],
				"path", dir.LastPath(),
				"entries", len(entries),
				"offset", w.Offset(),
			)
			if rep != nil {
				rep.ObserveTrack(entries)
			}

			return entries, nil
		})

		enc, err := track.NewGridEncoder(w,
			track.WithMissingPolicy(policy),
			track.WithMissingHandler(func(i, j int, err error) {
				logger.Warnw("missing cell, writing empty track",
					"feh", manifest.Metallicities[i],
					"mass", manifest.Masses[j],
					"error", err,
				)
				if rep != nil {
					rep.ObserveTrack(nil)
				}
			}),
		)
		if err != nil {
			return err
		}

		stats, err = enc.Encode(grid, src)

		return err
	})
	if err != nil {
		return Result{}, err
	}

	res.Entries = stats.Entries
	res.Tracks = stats.Cells
	res.Report = rep
	res.log(logger, "wrote track grid")
	if stats.Missing > 0 {
		logger.Warnw("grid has substituted cells", "missing", stats.Missing, "empty", stats.EmptyCells)
	}

	return res, nil
}

// Isochrones converts a MIST basic isochrone table into the isochrone format.
func Isochrones(cfg config.IsochronesConfig, opts Options) (res Result, err error) {
	logger := opts.logger()

	rc, err := compress.Open(cfg.Input)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = multierr.Append(err, rc.Close())
	}()

	set := track.NewIsochroneSet()
	for row, err := range track.ParseISO(rc) {
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", cfg.Input, err)
		}
		entry, err := row.Entry()
		if err != nil {
			return Result{}, fmt.Errorf("%s line %d: %w", cfg.Input, row.Line, err)
		}
		set.Add(row.LogAge, entry)
	}
	groups := set.Finalize()
	logger.Infow("grouped isochrones", "input", cfg.Input, "groups", len(groups))

	var rep *report.Report
	if opts.Report {
		rep = report.ForTracks("Isochrones")
		for _, g := range groups {
			rep.ObserveTrack(g.Entries)
		}
	}

	var total int
	res, err = emit(cfg.Output, opts, func(w *writer.Writer) error {
		var err error
		total, err = track.NewIsochroneEncoder(w).Encode(groups)

		return err
	})
	if err != nil {
		return Result{}, err
	}

	res.Entries = total
	res.Tracks = len(groups)
	res.Report = rep
	res.log(logger, "wrote isochrones")

	return res, nil
}
