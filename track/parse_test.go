package track

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/starbin/errs"
)

const eepFixture = `# MIST version number  = 1.2
# MESA revision number = 7503
# --------------------------------------------------------------------------------------
#  initial_mass   initial_Y   initial_Z   [Fe/H]   [a/Fe]   v/vcrit
#   1.0000000000E+00   0.2703   1.4200E-02   0.00   0.00   0.40
#                   1                        2                        3                        4                        5                        6                        7
#            star_age                star_mass                    log_L                 log_Teff                    log_R                    phase                   log_g

     1.0000000000E+05     1.0000000000E+00     1.2000000000E+00     3.6400000000E+00     1.1000000000E+00    -1.0000000000E+00     3.0000000000E+00
     4.6000000000E+09     9.9900000000E-01     0.0000000000E+00     3.7617000000E+00     0.0000000000E+00     0.0000000000E+00     4.4380000000E+00
`

func TestParseEEP(t *testing.T) {
	samples, err := ParseEEP(strings.NewReader(eepFixture))
	require.NoError(t, err)
	require.Len(t, samples, 2)

	require.Equal(t, Sample{Independent: 1e5, Mass: 1, LogL: 1.2, LogTeff: 3.64, LogR: 1.1, Phase: -1}, samples[0])
	require.InDelta(t, 4.6e9, samples[1].Independent, 1)
	require.InDelta(t, 3.7617, samples[1].LogTeff, 1e-12)
}

func TestParseEEP_Errors(t *testing.T) {
	header := "# star_age star_mass log_L log_Teff log_R phase\n"

	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"data before header", "1 2 3 4 5 6\n", "line 1"},
		{"header lacks column", "# star_age star_mass log_L log_Teff log_R\n1 2 3 4 5\n", "phase"},
		{"short line", header + "1 2 3 4 5 0\n1 2 3\n", "line 3"},
		{"not a number", header + "1 2 3 4 x 0\n", "log_R"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEEP(strings.NewReader(tt.input))
			require.ErrorIs(t, err, errs.ErrMalformedRecord)
			require.Contains(t, err.Error(), tt.line)
		})
	}
}

// isoLine builds a 25-column MIST basic isochrone line.
func isoLine(age, initialMass, starMass, logL, logTeff, logR, phase string) string {
	cols := make([]string, isoMinColumns)
	for i := range cols {
		cols[i] = "0.5"
	}
	cols[isoAge] = age
	cols[isoInitialMass] = initialMass
	cols[isoStarMass] = starMass
	cols[isoLogL] = logL
	cols[isoLogTeff] = logTeff
	cols[isoLogR] = logR
	cols[isoPhase] = phase

	return strings.Join(cols, "  ")
}

func TestParseISO(t *testing.T) {
	input := strings.Join([]string{
		"# MIST version number  = 1.2",
		"# EEP log10_isochrone_age_yr initial_mass star_mass ...",
		"",
		isoLine("5.0", "0.1", "0.1", "-1.5", "3.45", "-0.3", "-1"),
		isoLine("5.0", "0.09", "0.09", "-1.6", "3.44", "-0.35", "-1"),
		isoLine("5.05", "0.1", "0.1", "-1.5", "3.45", "-0.3", "0"),
	}, "\n")

	var rows []IsoRow
	for row, err := range ParseISO(strings.NewReader(input)) {
		require.NoError(t, err)
		rows = append(rows, row)
	}

	require.Len(t, rows, 3)
	require.Equal(t, 4, rows[0].Line)
	require.Equal(t, 5.0, rows[0].LogAge)
	require.Equal(t, 0.09, rows[1].Independent)
	require.Equal(t, -0.35, rows[1].LogR)
	require.Equal(t, 5.05, rows[2].LogAge)
	require.Equal(t, 0.0, rows[2].Phase)
}

func TestParseISO_Errors(t *testing.T) {
	t.Run("short line", func(t *testing.T) {
		var got error
		for _, err := range ParseISO(strings.NewReader("1 2 3\n")) {
			got = err
		}
		require.ErrorIs(t, got, errs.ErrMalformedRecord)
	})

	t.Run("bad number stops iteration", func(t *testing.T) {
		input := isoLine("5", "1", "1", "0", "3.7", "0", "0") + "\n" + isoLine("5", "x", "1", "0", "3.7", "0", "0") + "\n" + isoLine("6", "1", "1", "0", "3.7", "0", "0")
		n := 0
		var got error
		for _, err := range ParseISO(strings.NewReader(input)) {
			if err != nil {
				got = err
				continue
			}
			n++
		}
		require.Equal(t, 1, n)
		require.ErrorIs(t, got, errs.ErrMalformedRecord)
		require.Contains(t, got.Error(), "line 2")
	})

	for _, age := range []string{"NaN", "Inf", "-Inf"} {
		t.Run("non-finite age "+age, func(t *testing.T) {
			var got error
			for _, err := range ParseISO(strings.NewReader(isoLine(age, "1", "1", "0", "3.7", "0", "0") + "\n")) {
				got = err
			}
			require.ErrorIs(t, got, errs.ErrMalformedRecord)
			require.Contains(t, got.Error(), "not finite")
		})
	}

	t.Run("early break", func(t *testing.T) {
		input := isoLine("5", "1", "1", "0", "3.7", "0", "0") + "\n" + isoLine("6", "1", "1", "0", "3.7", "0", "0")
		n := 0
		for range ParseISO(strings.NewReader(input)) {
			n++
			break
		}
		require.Equal(t, 1, n)
	})
}
