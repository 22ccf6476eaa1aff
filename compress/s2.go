package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Codec reads and writes S2 streams. S2 readers also accept Snappy framed streams.
type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates an S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// NewReader returns an S2 stream reader.
func (S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}

// NewWriter returns an S2 stream writer. Close must be called to flush the last block.
func (S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}
