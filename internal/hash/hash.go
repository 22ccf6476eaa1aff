// Package hash computes the xxHash64 content digests reported for every produced artifact.
package hash

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"
)

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Reader computes the xxHash64 of everything read from r and returns the byte count.
func Reader(r io.Reader) (uint64, int64, error) {
	d := xxhash.New()
	n, err := io.Copy(d, r)
	if err != nil {
		return 0, n, err
	}

	return d.Sum64(), n, nil
}

// File computes the xxHash64 of the file at path and returns its size.
func File(path string) (digest uint64, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	return Reader(f)
}

// Format renders a digest as 16 hex digits.
func Format(digest uint64) string {
	return fmt.Sprintf("%016x", digest)
}
