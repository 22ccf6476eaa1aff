package writer

import (
	"errors"
	"io"
)

var errNegativePosition = errors.New("writer: negative position")

// Buffer is an in-memory io.WriteSeeker. Writes past the end extend it; writes before
// the end overwrite. The zero value is ready to use.
type Buffer struct {
	b   []byte
	pos int64
}

// Write writes p at the current position.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.b)) {
		if end > int64(cap(b.b)) {
			grown := make([]byte, len(b.b), max(end, int64(2*cap(b.b))))
			copy(grown, b.b)
			b.b = grown
		}
		b.b = b.b[:end]
	}

	n := copy(b.b[b.pos:], p)
	b.pos = end

	return n, nil
}

// Seek implements io.Seeker. Seeking past the end is allowed; the gap is zero-filled
// by the next write.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.b)) + offset
	default:
		return 0, errors.New("writer: invalid whence")
	}
	if abs < 0 {
		return 0, errNegativePosition
	}
	b.pos = abs

	return abs, nil
}

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.b
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.b)
}
