package track

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/starbin/errs"
)

func TestDecodeGrid_Corrupt(t *testing.T) {
	grid := Grid{Metallicities: []float32{0}, Masses: []float32{1, 2}}
	data, _, err := encodeGrid(t, nil, grid, mapSource{"0,0": {{Independent: 1}}, "0,1": {{Independent: 2}}})
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		for _, cut := range []int{0, 2, 6, 10, 22} {
			_, err := DecodeGrid(data[:cut])
			require.ErrorIs(t, err, errs.ErrTruncated, "cut at %d", cut)
		}
	})

	t.Run("truncated track", func(t *testing.T) {
		_, err := DecodeGrid(data[:len(data)-1])
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("pointer past end", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.BigEndian.PutUint32(bad[24:], uint32(len(bad)))
		_, err := DecodeGrid(bad)
		require.ErrorIs(t, err, errs.ErrBadPointer)
	})

	t.Run("pointer into table", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.BigEndian.PutUint32(bad[20:], 4)
		_, err := DecodeGrid(bad)
		require.ErrorIs(t, err, errs.ErrBadPointer)
	})

	t.Run("unresolved sentinel", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		copy(bad[20:], []byte{0xDE, 0xAD, 0xBE, 0xEF})
		_, err := DecodeGrid(bad)
		require.ErrorIs(t, err, errs.ErrBadPointer)
	})
}
