// Package build runs the starbin conversions end to end: open the sources, encode
// through a writer into a temporary file, commit it, and digest the result.
package build

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arloliu/starbin/internal/atomicfile"
	"github.com/arloliu/starbin/internal/hash"
	"github.com/arloliu/starbin/report"
	"github.com/arloliu/starbin/writer"
)

// Options are shared by every build.
type Options struct {
	Logger         *zap.SugaredLogger
	FlushThreshold int  // non-positive selects writer.DefaultFlushThreshold
	Report         bool // collect a report.Report while encoding
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}

	return o.Logger
}

func (o Options) flushThreshold() int {
	if o.FlushThreshold <= 0 {
		return writer.DefaultFlushThreshold
	}

	return o.FlushThreshold
}

// Result describes a committed artifact.
type Result struct {
	Path    string
	Size    int64
	Digest  uint64
	Entries int

	// Catalogue only.
	Rows       int
	Discarded  int
	Skipped    int // malformed rows
	Duplicates int // kept stars whose name was already written

	// Track builds only.
	Tracks int

	Report *report.Report // nil unless Options.Report
}

// emit writes one artifact: fn encodes into a writer over a temporary file which is
// renamed to path only if fn, the writer's Close and the commit all succeed.
func emit(path string, opts Options, fn func(w *writer.Writer) error) (res Result, err error) {
	f, err := atomicfile.Create(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, f.Abort())
		}
	}()

	w, err := writer.New(f, writer.WithFlushThreshold(opts.flushThreshold()))
	if err != nil {
		return Result{}, err
	}

	if err := fn(w); err != nil {
		return Result{}, multierr.Append(fmt.Errorf("%s at offset %d: %w", path, w.Offset(), err), w.Close())
	}
	if err := w.Close(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Commit(); err != nil {
		return Result{}, err
	}

	digest, size, err := hash.File(path)
	if err != nil {
		return Result{}, err
	}

	return Result{Path: path, Size: size, Digest: digest}, nil
}

func (r Result) log(logger *zap.SugaredLogger, msg string) {
	logger.Infow(msg,
		"path", r.Path,
		"bytes", r.Size,
		"entries", r.Entries,
		"xxhash", hash.Format(r.Digest),
	)
}
