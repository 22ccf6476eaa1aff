package compress

import (
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/starbin/errs"
)

// Type identifies a stream compression format.
type Type uint8

const (
	None Type = iota
	Gzip
	Zstd
	S2
	LZ4
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Ext returns the file suffix of t, or "" for None.
func (t Type) Ext() string {
	switch t {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case S2:
		return ".sz"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// compressed lists the types tried by Resolve, in order.
var compressed = []Type{Gzip, Zstd, S2, LZ4}

// DetectType returns the compression type implied by the suffix of path.
func DetectType(path string) Type {
	lower := strings.ToLower(path)
	for _, t := range compressed {
		if strings.HasSuffix(lower, t.Ext()) {
			return t
		}
	}

	return None
}

// Decompressor wraps a compressed stream.
type Decompressor interface {
	// NewReader returns a reader yielding the decompressed bytes of r. Closing it
	// releases decoder state but does not close r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Compressor wraps an output stream.
type Compressor interface {
	// NewWriter returns a writer compressing into w. Close flushes the final frame but
	// does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	None: NewNoOpCodec(),
	Gzip: NewGzipCodec(),
	Zstd: NewZstdCodec(),
	S2:   NewS2Codec(),
	LZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec of t.
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, t)
}
