package catalogue

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/starbin/errs"
)

func TestDecode_Truncated(t *testing.T) {
	data := encode(t,
		Entry{X: 1, Name: "Sol", SpectralClass: "G2V"},
		Entry{X: 2, Name: "Vega", SpectralClass: "A0V"},
	)
	first := (Entry{Name: "Sol", SpectralClass: "G2V"}).EncodedSize()

	tests := []struct {
		name string
		cut  int
	}{
		{"inside fixed fields", first + 7},
		{"inside name", first + FixedSize + 2},
		{"missing spectral terminator", len(data) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Decode(data[:tt.cut])
			require.ErrorIs(t, err, errs.ErrTruncated)
			require.Len(t, entries, 1)
			require.Equal(t, "Sol", entries[0].Name)
		})
	}
}

func TestSeq_StopsEarly(t *testing.T) {
	data := encode(t, Entry{Name: "a"}, Entry{Name: "b"}, Entry{Name: "c"})

	var names []string
	for entry, err := range Seq(bytes.NewReader(data)) {
		require.NoError(t, err)
		names = append(names, entry.Name)
		if len(names) == 2 {
			break
		}
	}

	require.Equal(t, []string{"a", "b"}, names)
}
