package format

import (
	"fmt"
	"math"

	"github.com/arloliu/starbin/endian"
	"github.com/arloliu/starbin/errs"
)

type (
	ScalarKind uint8
	PatchKind  uint8
)

const (
	I8  ScalarKind = 0x1 // I8 represents a signed 8-bit integer.
	U8  ScalarKind = 0x2 // U8 represents an unsigned 8-bit integer.
	I16 ScalarKind = 0x3 // I16 represents a signed 16-bit integer.
	U16 ScalarKind = 0x4 // U16 represents an unsigned 16-bit integer.
	I32 ScalarKind = 0x5 // I32 represents a signed 32-bit integer.
	U32 ScalarKind = 0x6 // U32 represents an unsigned 32-bit integer.
	I64 ScalarKind = 0x7 // I64 represents a signed 64-bit integer.
	U64 ScalarKind = 0x8 // U64 represents an unsigned 64-bit integer.
	F32 ScalarKind = 0x9 // F32 represents an IEEE-754 binary32 float.
	F64 ScalarKind = 0xA // F64 represents an IEEE-754 binary64 float.

	AbsolutePointer32 PatchKind = 0x1 // AbsolutePointer32 holds the absolute stream offset of a later region.
	RelativePointer16 PatchKind = 0x2 // RelativePointer16 holds the delta from the patch site to the resolve point.
	DeferredScalar    PatchKind = 0x3 // DeferredScalar holds a scalar known only after later writes, e.g. a count.
)

func (k ScalarKind) String() string {
	switch k {
	case I8:
		return "i8"
	case U8:
		return "u8"
	case I16:
		return "i16"
	case U16:
		return "u16"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case I64:
		return "i64"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "Unknown"
	}
}

func (p PatchKind) String() string {
	switch p {
	case AbsolutePointer32:
		return "AbsolutePointer32"
	case RelativePointer16:
		return "RelativePointer16"
	case DeferredScalar:
		return "DeferredScalar"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the defined scalar kinds.
func (k ScalarKind) Valid() bool {
	return k >= I8 && k <= F64
}

// Width returns the encoded size of k in bytes, or 0 for an invalid kind.
func (k ScalarKind) Width() int {
	switch k {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether k is an IEEE-754 kind.
func (k ScalarKind) IsFloat() bool {
	return k == F32 || k == F64
}

// Scalar returns the scalar kind a pointer patch is stored as.
// DeferredScalar has no fixed storage kind and returns 0.
func (p PatchKind) Scalar() ScalarKind {
	switch p {
	case AbsolutePointer32:
		return U32
	case RelativePointer16:
		return U16
	default:
		return 0
	}
}

// signedBounds holds the inclusive range of each integer kind as int64 where it fits.
func (k ScalarKind) signedBounds() (lo, hi int64) {
	switch k {
	case I8:
		return math.MinInt8, math.MaxInt8
	case U8:
		return 0, math.MaxUint8
	case I16:
		return math.MinInt16, math.MaxInt16
	case U16:
		return 0, math.MaxUint16
	case I32:
		return math.MinInt32, math.MaxInt32
	case U32:
		return 0, math.MaxUint32
	case I64:
		return math.MinInt64, math.MaxInt64
	default:
		// U64 upper bound does not fit int64; FromInt only needs the lower bound.
		return 0, math.MaxInt64
	}
}

// FromInt validates v against the range of k and returns its raw bit pattern,
// truncated to Width() bytes. Float kinds convert v to the nearest float.
func (k ScalarKind) FromInt(v int64) (uint64, error) {
	if !k.Valid() {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidScalarKind, uint8(k))
	}

	switch k {
	case F32:
		return uint64(math.Float32bits(float32(v))), nil
	case F64:
		return math.Float64bits(float64(v)), nil
	}

	lo, hi := k.signedBounds()
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %d does not fit %s", errs.ErrEncodingRange, v, k)
	}

	return uint64(v) & k.mask(), nil //nolint:gosec
}

// FromFloat validates v against the range of k and returns its raw bit pattern.
//
// Integer kinds truncate toward zero first; NaN, infinities and truncated values outside
// the kind's range fail with errs.ErrEncodingRange instead of wrapping. F32 rejects finite
// values whose magnitude overflows binary32.
func (k ScalarKind) FromFloat(v float64) (uint64, error) {
	if !k.Valid() {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidScalarKind, uint8(k))
	}

	switch k {
	case F64:
		return math.Float64bits(v), nil
	case F32:
		f := float32(v)
		if math.IsInf(float64(f), 0) && !math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %g overflows %s", errs.ErrEncodingRange, v, k)
		}

		return uint64(math.Float32bits(f)), nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %g does not fit %s", errs.ErrEncodingRange, v, k)
	}

	t := math.Trunc(v)
	switch k {
	case U64:
		if t < 0 || t >= 18446744073709551616.0 {
			return 0, fmt.Errorf("%w: %g does not fit %s", errs.ErrEncodingRange, v, k)
		}

		return uint64(t), nil
	case I64:
		if t < -9223372036854775808.0 || t >= 9223372036854775808.0 {
			return 0, fmt.Errorf("%w: %g does not fit %s", errs.ErrEncodingRange, v, k)
		}

		return uint64(int64(t)), nil //nolint:gosec
	}

	lo, hi := k.signedBounds()
	if t < float64(lo) || t > float64(hi) {
		return 0, fmt.Errorf("%w: %g does not fit %s", errs.ErrEncodingRange, v, k)
	}

	return uint64(int64(t)) & k.mask(), nil //nolint:gosec
}

// FromUint validates v against the range of k and returns its raw bit pattern.
func (k ScalarKind) FromUint(v uint64) (uint64, error) {
	if k == U64 {
		return v, nil
	}
	if v > math.MaxInt64 {
		if k.IsFloat() {
			return k.FromFloat(float64(v))
		}

		return 0, fmt.Errorf("%w: %d does not fit %s", errs.ErrEncodingRange, v, k)
	}

	return k.FromInt(int64(v))
}

func (k ScalarKind) mask() uint64 {
	switch k.Width() {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	case 4:
		return 0xFFFFFFFF
	default:
		return math.MaxUint64
	}
}

// Put stores the raw bit pattern of a k-typed value into b[:k.Width()] using engine.
// b must be at least Width() bytes.
func (k ScalarKind) Put(engine endian.EndianEngine, b []byte, bits uint64) {
	switch k.Width() {
	case 1:
		b[0] = byte(bits)
	case 2:
		engine.PutUint16(b, uint16(bits)) //nolint:gosec
	case 4:
		engine.PutUint32(b, uint32(bits)) //nolint:gosec
	case 8:
		engine.PutUint64(b, bits)
	}
}

// Get loads the raw bit pattern of a k-typed value from b[:k.Width()].
func (k ScalarKind) Get(engine endian.EndianEngine, b []byte) uint64 {
	switch k.Width() {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(engine.Uint16(b))
	case 4:
		return uint64(engine.Uint32(b))
	case 8:
		return engine.Uint64(b)
	default:
		return 0
	}
}
