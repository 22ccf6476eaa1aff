package track

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/starbin/errs"
	"github.com/arloliu/starbin/writer"
)

var thresholds = []struct {
	name string
	opt  writer.Option
}{
	{"buffered", writer.WithFlushThreshold(writer.DefaultFlushThreshold)},
	{"unbuffered", writer.WithFlushThreshold(0)},
}

// mapSource serves cells from a map keyed by "i,j"; absent keys are missing.
type mapSource map[string][]Entry

func (m mapSource) Track(i, j int) ([]Entry, error) {
	entries, ok := m[fmt.Sprintf("%d,%d", i, j)]
	if !ok {
		return nil, fmt.Errorf("%w: cell %d,%d", errs.ErrMissingInput, i, j)
	}

	return entries, nil
}

func encodeGrid(t *testing.T, wopt writer.Option, grid Grid, src CellSource, opts ...GridOption) ([]byte, GridStats, error) {
	t.Helper()

	buf := &writer.Buffer{}
	w, err := writer.New(buf, wopt)
	require.NoError(t, err)

	enc, err := NewGridEncoder(w, opts...)
	require.NoError(t, err)

	stats, encErr := enc.Encode(grid, src)
	if encErr != nil {
		return nil, stats, encErr
	}
	require.NoError(t, w.Close())

	return buf.Bytes(), stats, nil
}

func TestGridEncoder_OneByTwo(t *testing.T) {
	grid := Grid{Metallicities: []float32{0}, Masses: []float32{1, 2}}
	src := mapSource{
		"0,0": {
			{Independent: 3e9, Mass: 1, Luminosity: 1.5, Temperature: 5500, Radius: 1.2, Phase: 0},
			{Independent: 1e6, Mass: 1, Luminosity: 0.8, Temperature: 4000, Radius: 1.9, Phase: -1},
			{Independent: 1e9, Mass: 1, Luminosity: 1, Temperature: 5772, Radius: 1, Phase: 0},
		},
		"0,1": {},
	}

	for _, th := range thresholds {
		t.Run(th.name, func(t *testing.T) {
			data, stats, err := encodeGrid(t, th.opt, grid, src)
			require.NoError(t, err)
			require.Equal(t, GridStats{Cells: 2, Entries: 3, EmptyCells: 1}, stats)

			const first = 4 + 4 + 4 + 2*4 + 2*4
			const second = first + 2 + 3*EntrySize
			require.Len(t, data, second+2)

			be := binary.BigEndian
			require.Equal(t, uint32(1), be.Uint32(data[0:]))
			require.Equal(t, uint32(2), be.Uint32(data[8:]))
			require.Equal(t, float32(2), math.Float32frombits(be.Uint32(data[16:])))
			require.Equal(t, uint32(first), be.Uint32(data[20:]))
			require.Equal(t, uint32(second), be.Uint32(data[24:]))
			require.Equal(t, uint16(3), be.Uint16(data[first:]))
			require.Equal(t, uint16(0), be.Uint16(data[second:]))

			// entries sorted by age
			require.Equal(t, float32(1e6), math.Float32frombits(be.Uint32(data[first+2:])))
			require.Equal(t, byte(0xFF), data[first+2+EntrySize-1])
			require.Equal(t, float32(3e9), math.Float32frombits(be.Uint32(data[first+2+2*EntrySize:])))

			decoded, err := DecodeGrid(data)
			require.NoError(t, err)
			require.Equal(t, []uint32{first, second}, decoded.Pointers)
			require.Len(t, decoded.Track(0, 0), 3)
			require.Empty(t, decoded.Track(0, 1))
			require.Equal(t, float32(5772), decoded.Track(0, 0)[1].Temperature)
		})
	}
}

func TestGridEncoder_RandomGrid(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	grid := Grid{
		Metallicities: []float32{0.25, -0.5, 0},
		Masses:        []float32{0.1, 0.5, 1, 2},
	}
	src := mapSource{}
	for i := range grid.Metallicities {
		for j := range grid.Masses {
			n := rng.IntN(40)
			entries := make([]Entry, n)
			for k := range entries {
				entries[k] = Entry{
					Independent: float32(rng.IntN(20)),
					Mass:        grid.Masses[j],
					Luminosity:  rng.Float32(),
					Temperature: 3000 + 1000*rng.Float32(),
					Radius:      rng.Float32(),
					Phase:       int8(rng.IntN(10) - 1), //nolint:gosec
				}
			}
			src[fmt.Sprintf("%d,%d", i, j)] = entries
		}
	}

	for _, th := range thresholds {
		t.Run(th.name, func(t *testing.T) {
			expected := mapSource{}
			for k, v := range src {
				cp := append([]Entry(nil), v...)
				SortEntries(cp)
				expected[k] = cp
			}

			data, stats, err := encodeGrid(t, th.opt, grid, src)
			require.NoError(t, err)
			require.Equal(t, 12, stats.Cells)

			decoded, err := DecodeGrid(data)
			require.NoError(t, err)
			require.Equal(t, grid.Metallicities, decoded.Metallicities)
			require.Equal(t, grid.Masses, decoded.Masses)

			prev := uint32(0)
			for i := range grid.Metallicities {
				for j := range grid.Masses {
					ptr := decoded.Pointers[i*len(grid.Masses)+j]
					require.Greater(t, ptr, prev, "tracks follow the table in row-major order")
					prev = ptr

					want := expected[fmt.Sprintf("%d,%d", i, j)]
					got := decoded.Track(i, j)
					require.Len(t, got, len(want))
					for k := range want {
						require.Equal(t, want[k], got[k])
					}
					for k := 1; k < len(got); k++ {
						require.LessOrEqual(t, got[k-1].Independent, got[k].Independent)
					}
				}
			}
		})
	}
}

func TestGridEncoder_Missing(t *testing.T) {
	grid := Grid{Metallicities: []float32{0}, Masses: []float32{1, 2}}
	src := mapSource{"0,0": {{Independent: 1}}}

	t.Run("fail", func(t *testing.T) {
		_, _, err := encodeGrid(t, nil, grid, src)
		require.ErrorIs(t, err, errs.ErrMissingInput)
		require.Contains(t, err.Error(), "cell [0][1]")
	})

	t.Run("empty", func(t *testing.T) {
		var reported []string
		data, stats, err := encodeGrid(t, nil, grid, src,
			WithMissingPolicy(MissingEmpty),
			WithMissingHandler(func(i, j int, err error) {
				require.ErrorIs(t, err, errs.ErrMissingInput)
				reported = append(reported, fmt.Sprintf("%d,%d", i, j))
			}),
		)
		require.NoError(t, err)
		require.Equal(t, []string{"0,1"}, reported)
		require.Equal(t, GridStats{Cells: 2, Entries: 1, EmptyCells: 1, Missing: 1}, stats)

		decoded, err := DecodeGrid(data)
		require.NoError(t, err)
		require.Empty(t, decoded.Track(0, 1))
	})

	t.Run("other errors are always fatal", func(t *testing.T) {
		broken := CellSourceFunc(func(int, int) ([]Entry, error) {
			return nil, errs.ErrMalformedRecord
		})
		_, _, err := encodeGrid(t, nil, grid, broken, WithMissingPolicy(MissingEmpty))
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})
}

func TestGridEncoder_TrackTooLong(t *testing.T) {
	grid := Grid{Metallicities: []float32{0}, Masses: []float32{1}}

	_, _, err := encodeGrid(t, nil, grid, mapSource{"0,0": make([]Entry, MaxTrackEntries+1)})
	require.ErrorIs(t, err, errs.ErrEncodingRange)

	data, stats, err := encodeGrid(t, nil, grid, mapSource{"0,0": make([]Entry, MaxTrackEntries)})
	require.NoError(t, err)
	require.Equal(t, MaxTrackEntries, stats.Entries)

	decoded, err := DecodeGrid(data)
	require.NoError(t, err)
	require.Len(t, decoded.Track(0, 0), MaxTrackEntries)
}

func TestMissingPolicy(t *testing.T) {
	for in, want := range map[string]MissingPolicy{"": MissingFail, "fail": MissingFail, "empty": MissingEmpty} {
		got, err := ParseMissingPolicy(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseMissingPolicy("null")
	require.Error(t, err)

	require.Equal(t, "empty", MissingEmpty.String())
	require.Equal(t, "MissingPolicy(9)", MissingPolicy(9).String())

	_, err = NewGridEncoder(nil, WithMissingPolicy(MissingPolicy(9)))
	require.Error(t, err)
}
