package writer

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/starbin/endian"
	"github.com/arloliu/starbin/errs"
	"github.com/arloliu/starbin/format"
	"github.com/arloliu/starbin/internal/options"
	"github.com/arloliu/starbin/internal/pool"
)

// DefaultFlushThreshold is the tail size at which buffered bytes are written to the sink.
const DefaultFlushThreshold = pool.WriteBufferDefaultSize

// sentinel is the fill pattern of a reserved, unresolved patch slot.
var sentinel = [8]byte{0xDE, 0xAD, 0xBE, 0xEF, 0xDE, 0xAD, 0xBE, 0xEF}

// Config holds writer options.
type Config struct {
	flushThreshold int
}

// Option is a functional option for configuring a Writer.
type Option = options.Option[*Config]

// WithFlushThreshold sets how many buffered bytes trigger a flush to the sink.
// Zero flushes after every write, which is mostly useful to exercise the seek path.
func WithFlushThreshold(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("invalid flush threshold: %d", n)
		}
		c.flushThreshold = n

		return nil
	})
}

// Writer is a sequential big-endian emitter with deferred patch support.
//
// Note: The Writer is NOT reusable. After Close, a new writer must be created.
type Writer struct {
	sink   io.WriteSeeker
	engine endian.EndianEngine

	// tail holds the bytes of [base, Offset()) that have not reached the sink yet.
	// Outside of patch resolution the sink is always positioned at base.
	tail      *pool.ByteBuffer
	base      int64
	threshold int

	outstanding map[int64]*Patch
	closed      bool
	scratch     [8]byte
}

// New creates a Writer appending to sink at its current position.
//
// Offsets reported by the writer and stored by pointer patches are absolute sink
// positions, so for a fresh file they are file offsets.
func New(sink io.WriteSeeker, opts ...Option) (*Writer, error) {
	if sink == nil {
		return nil, fmt.Errorf("writer: sink cannot be nil")
	}

	cfg := &Config{flushThreshold: DefaultFlushThreshold}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	base, err := sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("writer: failed to query sink position: %w", err)
	}

	return &Writer{
		sink:        sink,
		engine:      endian.GetBigEndianEngine(),
		tail:        pool.GetWriteBuffer(),
		base:        base,
		threshold:   cfg.flushThreshold,
		outstanding: make(map[int64]*Patch),
	}, nil
}

// Offset returns the logical cursor: the stream offset the next byte will be written at.
func (w *Writer) Offset() int64 {
	return w.base + int64(w.tail.Len())
}

// Outstanding returns the number of reserved patches not yet resolved.
func (w *Writer) Outstanding() int {
	return len(w.outstanding)
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(p []byte) error {
	if w.closed {
		return errs.ErrWriterClosed
	}

	_, _ = w.tail.Write(p)
	if w.tail.Len() >= w.threshold {
		return w.flush()
	}

	return nil
}

// WriteCString appends text as UTF-8 followed by a single 0x00 terminator.
func (w *Writer) WriteCString(text string) error {
	if strings.IndexByte(text, 0) >= 0 {
		return fmt.Errorf("%w: %q at offset %d", errs.ErrEmbeddedNUL, text, w.Offset())
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: %q at offset %d", errs.ErrInvalidUTF8, text, w.Offset())
	}

	buf := make([]byte, 0, len(text)+1)
	buf = append(buf, text...)
	buf = append(buf, 0)

	return w.WriteBytes(buf)
}

// EmitScalar appends v encoded as kind.
//
// Integer kinds truncate v toward zero; a value that is not representable afterwards
// fails with errs.ErrEncodingRange instead of wrapping.
func (w *Writer) EmitScalar(kind format.ScalarKind, v float64) error {
	bits, err := kind.FromFloat(v)
	if err != nil {
		return fmt.Errorf("emit at offset %d: %w", w.Offset(), err)
	}

	return w.writeScalar(kind, bits)
}

// EmitInt appends v encoded as kind, failing with errs.ErrEncodingRange when v does not fit.
func (w *Writer) EmitInt(kind format.ScalarKind, v int64) error {
	bits, err := kind.FromInt(v)
	if err != nil {
		return fmt.Errorf("emit at offset %d: %w", w.Offset(), err)
	}

	return w.writeScalar(kind, bits)
}

// WriteInt8 appends v as one signed byte.
func (w *Writer) WriteInt8(v int8) error {
	return w.writeScalar(format.I8, uint64(uint8(v)))
}

// WriteUint8 appends v as one byte.
func (w *Writer) WriteUint8(v uint8) error {
	return w.writeScalar(format.U8, uint64(v))
}

// WriteInt16 appends v as 2 big-endian bytes.
func (w *Writer) WriteInt16(v int16) error {
	return w.writeScalar(format.I16, uint64(uint16(v)))
}

// WriteUint16 appends v as 2 big-endian bytes.
func (w *Writer) WriteUint16(v uint16) error {
	return w.writeScalar(format.U16, uint64(v))
}

// WriteInt32 appends v as 4 big-endian bytes.
func (w *Writer) WriteInt32(v int32) error {
	return w.writeScalar(format.I32, uint64(uint32(v)))
}

// WriteUint32 appends v as 4 big-endian bytes.
func (w *Writer) WriteUint32(v uint32) error {
	return w.writeScalar(format.U32, uint64(v))
}

// WriteInt64 appends v as 8 big-endian bytes.
func (w *Writer) WriteInt64(v int64) error {
	return w.writeScalar(format.I64, uint64(v)) //nolint:gosec
}

// WriteUint64 appends v as 8 big-endian bytes.
func (w *Writer) WriteUint64(v uint64) error {
	return w.writeScalar(format.U64, v)
}

// WriteFloat32 appends the IEEE 754 bits of v as 4 big-endian bytes. NaN payloads are kept.
func (w *Writer) WriteFloat32(v float32) error {
	return w.writeScalar(format.F32, uint64(math.Float32bits(v)))
}

// WriteFloat64 appends the IEEE 754 bits of v as 8 big-endian bytes.
func (w *Writer) WriteFloat64(v float64) error {
	return w.writeScalar(format.F64, math.Float64bits(v))
}

// ReservePointer reserves a 4-byte absolute pointer slot.
func (w *Writer) ReservePointer() (*Patch, error) {
	return w.Reserve(format.AbsolutePointer32, format.U32)
}

// ReserveRelative reserves a 2-byte relative pointer slot.
func (w *Writer) ReserveRelative() (*Patch, error) {
	return w.Reserve(format.RelativePointer16, format.U16)
}

// ReserveScalar reserves a slot for a scalar of the given kind, typically a count.
func (w *Writer) ReserveScalar(kind format.ScalarKind) (*Patch, error) {
	return w.Reserve(format.DeferredScalar, kind)
}

// Reserve writes a sentinel placeholder for a patch of the given kind at the cursor and
// returns its handle. Pointer kinds ignore scalar and use their fixed storage kind.
func (w *Writer) Reserve(kind format.PatchKind, scalar format.ScalarKind) (*Patch, error) {
	switch kind {
	case format.AbsolutePointer32, format.RelativePointer16:
		scalar = kind.Scalar()
	case format.DeferredScalar:
		if !scalar.Valid() {
			return nil, fmt.Errorf("%w: %d", errs.ErrInvalidScalarKind, uint8(scalar))
		}
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidPatchKind, uint8(kind))
	}

	p := &Patch{
		w:      w,
		offset: w.Offset(),
		kind:   kind,
		scalar: scalar,
	}
	if err := w.WriteBytes(sentinel[:scalar.Width()]); err != nil {
		return nil, err
	}
	w.outstanding[p.offset] = p

	return p, nil
}

// Close flushes buffered bytes to the sink and verifies that every reserved patch was
// resolved. It does not close the sink. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	err := w.flush()
	w.closed = true
	pool.PutWriteBuffer(w.tail)
	w.tail = pool.NewByteBuffer(0)

	if err != nil {
		return err
	}

	if len(w.outstanding) > 0 {
		offsets := make([]int64, 0, len(w.outstanding))
		for off := range w.outstanding {
			offsets = append(offsets, off)
		}
		slices.Sort(offsets)

		return fmt.Errorf("%w: %d patch(es) at offsets %v", errs.ErrUnresolvedPatch, len(offsets), offsets)
	}

	return nil
}

func (w *Writer) writeScalar(kind format.ScalarKind, bits uint64) error {
	b := w.scratch[:kind.Width()]
	kind.Put(w.engine, b, bits)

	return w.WriteBytes(b)
}

// flush writes the tail to the sink, which is positioned at base.
func (w *Writer) flush() error {
	if w.tail.Len() == 0 {
		return nil
	}

	n, err := w.tail.WriteTo(w.sink)
	if err != nil {
		return fmt.Errorf("flush at offset %d: %w", w.base, err)
	}
	w.base += n
	w.tail.Reset()

	return nil
}

// writeAt overwrites already-emitted bytes at off without moving the logical cursor.
func (w *Writer) writeAt(off int64, p []byte) error {
	if w.closed {
		return errs.ErrWriterClosed
	}

	if off >= w.base {
		_, err := w.tail.WriteAt(p, off-w.base)
		return err
	}

	// The range starts in flushed bytes. Flush the rest so the sink holds all of it.
	if err := w.flush(); err != nil {
		return err
	}

	if _, err := w.sink.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("patch seek to %d: %w", off, err)
	}
	if _, err := w.sink.Write(p); err != nil {
		return fmt.Errorf("patch write at %d: %w", off, err)
	}
	if _, err := w.sink.Seek(w.base, io.SeekStart); err != nil {
		return fmt.Errorf("restore cursor to %d: %w", w.base, err)
	}

	return nil
}
