package compress

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/multierr"
)

// Open opens path and returns its decompressed contents, choosing the codec by suffix.
// Closing the returned reader closes the file.
func Open(path string) (io.ReadCloser, error) {
	codec, err := GetCodec(DetectType(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc, err := codec.NewReader(f)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("%s: %w", path, err), f.Close())
	}

	return &fileReader{ReadCloser: rc, file: f}, nil
}

// Create creates or truncates path and returns a writer compressing into it, choosing the
// codec by suffix. Closing the returned writer flushes the codec and closes the file.
func Create(path string) (io.WriteCloser, error) {
	codec, err := GetCodec(DetectType(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	wc, err := codec.NewWriter(f)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("%s: %w", path, err), f.Close())
	}

	return &fileWriter{WriteCloser: wc, file: f}, nil
}

// Resolve returns the first existing file among path and path with each compression
// suffix appended. An error wrapping fs.ErrNotExist means none exists.
func Resolve(path string) (string, error) {
	candidates := make([]string, 0, len(compressed)+1)
	candidates = append(candidates, path)
	for _, t := range compressed {
		candidates = append(candidates, path+t.Ext())
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	return "", fmt.Errorf("%s: %w", path, fs.ErrNotExist)
}

type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (r *fileReader) Close() error {
	return multierr.Combine(r.ReadCloser.Close(), r.file.Close())
}

type fileWriter struct {
	io.WriteCloser
	file *os.File
}

func (w *fileWriter) Close() error {
	return multierr.Combine(w.WriteCloser.Close(), w.file.Close())
}
