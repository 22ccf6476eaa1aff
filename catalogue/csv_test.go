package catalogue

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/starbin/errs"
)

func collectRows(t *testing.T, inputs ...string) ([]Row, error) {
	t.Helper()

	readers := make([]io.Reader, len(inputs))
	for i, in := range inputs {
		readers[i] = strings.NewReader(in)
	}

	var rows []Row
	for row, err := range ReadCSV(readers...) {
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func TestReadCSV(t *testing.T) {
	rows, err := collectRows(t, "id,proper,dist\n1,Sol,0\n2,,4.2\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	name, ok := rows[0].Get("proper")
	require.True(t, ok)
	require.Equal(t, "Sol", name)
	require.Equal(t, 2, rows[0].Line)

	_, ok = rows[1].Get("proper")
	require.False(t, ok, "empty cell is absent")
	_, ok = rows[1].Get("nope")
	require.False(t, ok, "unknown column is absent")

	dist, ok, err := rows[1].Float("dist")
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 4.2, dist, 1e-12)
}

func TestReadCSV_Stitched(t *testing.T) {
	t.Run("continuation without header", func(t *testing.T) {
		rows, err := collectRows(t, "id,dist\n1,1\n2,2\n", "3,3\n")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, 1, rows[2].Source)
		id, _ := rows[2].Get("id")
		require.Equal(t, "3", id)
	})

	t.Run("repeated header is skipped", func(t *testing.T) {
		rows, err := collectRows(t, "id,dist\n1,1\n", "id,dist\n2,2\n")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		id, _ := rows[1].Get("id")
		require.Equal(t, "2", id)
	})

	t.Run("first input empty", func(t *testing.T) {
		rows, err := collectRows(t, "", "id\n7\n")
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}

func TestReadCSV_Errors(t *testing.T) {
	t.Run("bad quoting", func(t *testing.T) {
		rows, err := collectRows(t, "id,name\n1,\"ok\"\n2,\"broken\n")
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
		require.Len(t, rows, 1)
	})

	t.Run("short record reads as absent", func(t *testing.T) {
		rows, err := collectRows(t, "id,dist,mag\n1,2\n")
		require.NoError(t, err)
		_, ok := rows[0].Get("mag")
		require.False(t, ok)
	})

	t.Run("not a number", func(t *testing.T) {
		rows, err := collectRows(t, "id,dist\n1,far\n")
		require.NoError(t, err)
		_, _, err = rows[0].Float("dist")
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})
}
