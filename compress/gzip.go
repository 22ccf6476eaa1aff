package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec reads and writes gzip streams. Concatenated members are read as one stream.
type GzipCodec struct{}

var _ Codec = (*GzipCodec)(nil)

// NewGzipCodec creates a gzip codec.
func NewGzipCodec() GzipCodec {
	return GzipCodec{}
}

// NewReader reads the gzip header of r and returns the decompressing reader.
func (GzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// NewWriter returns a gzip writer at the default level.
func (GzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}
