// Package errs defines the sentinel errors shared by the starbin encoders, decoders and writer.
//
// Callers wrap these with fmt.Errorf("%w: ...") to attach the offending file, row or byte
// offset, and match them with errors.Is.
package errs

import "errors"

// Encoding errors.
var (
	// ErrEncodingRange is returned when a value does not fit the target scalar width,
	// e.g. a phase code outside the int8 range or a count above the u16 limit.
	ErrEncodingRange = errors.New("value out of range for target scalar kind")
	// ErrDeltaOverflow is returned when a relative pointer delta exceeds 65535.
	ErrDeltaOverflow = errors.New("relative pointer delta exceeds 65535")
	// ErrEmbeddedNUL is returned when a terminated string contains a 0x00 byte.
	ErrEmbeddedNUL = errors.New("string contains embedded NUL byte")
	// ErrInvalidUTF8 is returned when a terminated string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("string is not valid UTF-8")
	// ErrInvalidScalarKind is returned for a scalar kind outside the closed enumeration.
	ErrInvalidScalarKind = errors.New("invalid scalar kind")
	// ErrInvalidPatchKind is returned for a patch kind outside the closed enumeration.
	ErrInvalidPatchKind = errors.New("invalid patch kind")
)

// Writer state errors. These indicate programmer errors rather than bad input.
var (
	ErrPatchResolved   = errors.New("patch already resolved")
	ErrPatchKind       = errors.New("resolver does not match patch kind")
	ErrUnresolvedPatch = errors.New("unresolved patches at close")
	ErrWriterClosed    = errors.New("writer is closed")
)

// Input errors.
var (
	// ErrMissingInput is returned when an expected per-cell source file is absent.
	ErrMissingInput = errors.New("missing input")
	// ErrMalformedRecord is returned when a source row lacks required fields or cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnsupportedCompression is returned for an input suffix without a known decompressor.
	ErrUnsupportedCompression = errors.New("unsupported compression")
	// ErrInvalidManifest is returned when a grid manifest is inconsistent.
	ErrInvalidManifest = errors.New("invalid grid manifest")
)

// Decoding errors.
var (
	ErrTruncated  = errors.New("truncated data")
	ErrBadPointer = errors.New("track pointer out of bounds")
)
