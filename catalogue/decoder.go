package catalogue

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/arloliu/starbin/endian"
	"github.com/arloliu/starbin/errs"
)

// Seq returns an iterator over the entries of a catalogue stream.
//
// Iteration stops after the first error, which is yielded with a zero Entry. A stream that
// ends cleanly between entries yields no error.
func Seq(r io.Reader) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		br := bufio.NewReader(r)
		engine := endian.GetBigEndianEngine()
		var (
			fixed  [FixedSize]byte
			offset int64
		)

		for index := 0; ; index++ {
			n, err := io.ReadFull(br, fixed[:])
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Entry{}, fmt.Errorf("%w: entry %d at offset %d has %d of %d fixed bytes", errs.ErrTruncated, index, offset, n, FixedSize))
				return
			}

			entry := Entry{
				X:           math.Float32frombits(engine.Uint32(fixed[0:4])),
				Y:           math.Float32frombits(engine.Uint32(fixed[4:8])),
				Z:           math.Float32frombits(engine.Uint32(fixed[8:12])),
				Luminosity:  math.Float32frombits(engine.Uint32(fixed[12:16])),
				Temperature: math.Float32frombits(engine.Uint32(fixed[16:20])),
			}

			if entry.Name, err = readCString(br); err != nil {
				yield(Entry{}, fmt.Errorf("entry %d name at offset %d: %w", index, offset, err))
				return
			}
			if entry.SpectralClass, err = readCString(br); err != nil {
				yield(Entry{}, fmt.Errorf("entry %d spectral class at offset %d: %w", index, offset, err))
				return
			}

			offset += int64(entry.EncodedSize())
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Decode reads every entry of an in-memory catalogue.
func Decode(data []byte) ([]Entry, error) {
	entries := make([]Entry, 0, len(data)/(FixedSize+8))
	for entry, err := range Seq(bytes.NewReader(data)) {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func readCString(br *bufio.Reader) (string, error) {
	b, err := br.ReadBytes(0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: unterminated string", errs.ErrTruncated)
		}

		return "", err
	}

	return string(b[:len(b)-1]), nil
}
