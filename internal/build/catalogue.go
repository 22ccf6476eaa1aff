package build

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"github.com/arloliu/starbin/catalogue"
	"github.com/arloliu/starbin/compress"
	"github.com/arloliu/starbin/errs"
	"github.com/arloliu/starbin/internal/collision"
	"github.com/arloliu/starbin/internal/config"
	"github.com/arloliu/starbin/report"
	"github.com/arloliu/starbin/writer"
)

// Catalogue converts the ATHYG CSV inputs into the star catalogue.
func Catalogue(cfg config.CatalogueConfig, opts Options) (res Result, err error) {
	logger := opts.logger()
	if len(cfg.Inputs) == 0 {
		return Result{}, fmt.Errorf("%w: no catalogue inputs", errs.ErrMissingInput)
	}

	filter, err := catalogue.NewFilter(
		catalogue.WithMaxDistance(cfg.MaxDistancePC),
		catalogue.WithMaxApparentMag(cfg.MaxApparentMag),
		catalogue.WithMaxAbsoluteMag(cfg.MaxAbsoluteMag),
		catalogue.WithExclude(cfg.Exclude...),
	)
	if err != nil {
		return Result{}, err
	}

	readers := make([]io.Reader, 0, len(cfg.Inputs))
	closers := make([]io.Closer, 0, len(cfg.Inputs))
	defer func() {
		for _, c := range closers {
			err = multierr.Append(err, c.Close())
		}
	}()
	for _, path := range cfg.Inputs {
		rc, err := compress.Open(path)
		if err != nil {
			return Result{}, err
		}
		readers = append(readers, rc)
		closers = append(closers, rc)
	}

	var rep *report.Report
	if opts.Report {
		rep = report.ForCatalogue()
	}

	names := collision.NewTracker()
	var rows, kept, discarded, skipped int
	res, err = emit(cfg.Output, opts, func(w *writer.Writer) error {
		enc := catalogue.NewEncoder(w)

		for row, err := range catalogue.ReadCSV(readers...) {
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Inputs[row.Source], err)
			}
			rows++

			if cfg.ProgressEvery > 0 && rows%cfg.ProgressEvery == 0 {
				logger.Infow("progress",
					"rows", rows,
					"kept", kept,
					"discarded", discarded+skipped,
					"percent", fmt.Sprintf("%.2f", 100*float64(kept)/float64(rows)),
				)
			}

			star, keep, err := filter.Select(row)
			if errors.Is(err, errs.ErrMalformedRecord) {
				skipped++
				logger.Debugw("skipping row", "input", cfg.Inputs[row.Source], "line", row.Line, "error", err)

				continue
			}
			if err != nil {
				return err
			}
			if !keep {
				discarded++
				continue
			}

			if err := enc.Encode(star.Entry); err != nil {
				return fmt.Errorf("%s line %d: %w", cfg.Inputs[row.Source], row.Line, err)
			}
			kept++

			if seen := names.Track(star.Name); seen > 0 {
				logger.Warnw("duplicate star name",
					"name", star.Name,
					"input", cfg.Inputs[row.Source],
					"line", row.Line,
					"seen", seen,
				)
			}
			if star.Proper {
				logger.Debugw("proper name",
					"name", star.Name,
					"spect", star.SpectralClass,
					"x", star.X, "y", star.Y, "z", star.Z,
					"ci", star.ColorIndex,
					"lsol", fmt.Sprintf("%.2f", star.Luminosity),
					"kelvin", fmt.Sprintf("%.2f", star.Temperature),
				)
			}
			if rep != nil {
				rep.ObserveStar(star.Entry)
			}
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Entries = kept
	res.Rows = rows
	res.Discarded = discarded
	res.Skipped = skipped
	res.Duplicates = names.Duplicates()
	res.Report = rep
	res.log(logger, "wrote star catalogue")
	logger.Infow("catalogue rows", "kept", kept, "discarded", discarded, "malformed", skipped, "duplicate_names", res.Duplicates)

	return res, nil
}
