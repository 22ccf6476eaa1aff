package catalogue

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/starbin/errs"
)

var athygHeader = strings.Split("id,tyc,gl,hyg,hip,hd,hr,proper,ra,dec,dist,x0,y0,z0,mag,absmag,ci,bayer,flam,spect", ",")

// athygRow builds a row from column=value pairs; unnamed columns are empty.
func athygRow(cells map[string]string) Row {
	record := make([]string, len(athygHeader))
	for i, column := range athygHeader {
		record[i] = cells[column]
	}

	return NewRow(athygHeader, record)
}

func TestDerive(t *testing.T) {
	require.InDelta(t, 1/0.9, Luminosity(4.74), 1e-12)
	require.InDelta(t, 100/0.9, Luminosity(-0.26), 1e-9)
	require.InDelta(t, 5778.4, Temperature(0.65), 1)

	star, err := Derive(athygRow(map[string]string{
		"proper": "Vega", "absmag": "0.604", "ci": "-0.001", "dist": "7.68",
		"x0": "1.5", "y0": "-6", "z0": "4.25", "spect": "A0Vvar", "hip": "91262",
	}))
	require.NoError(t, err)
	require.True(t, star.Proper)
	require.Equal(t, "Vega", star.Name)
	require.Equal(t, "A0Vvar", star.SpectralClass)
	require.Equal(t, float32(1.5), star.X)
	require.Equal(t, float32(-6), star.Y)
	require.Equal(t, float32(4.25), star.Z)
	require.InDelta(t, Luminosity(0.604), float64(star.Luminosity), 1e-3)
	require.InDelta(t, Temperature(-0.001), float64(star.Temperature), 1e-2)
	require.InDelta(t, 7.68, star.Distance, 1e-12)

	_, err = Derive(athygRow(map[string]string{"proper": "X", "absmag": "1", "ci": "1", "x0": "1", "y0": "1"}))
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
	require.Contains(t, err.Error(), "z0")
}

func TestResolveName(t *testing.T) {
	tests := []struct {
		name   string
		cells  map[string]string
		want   string
		proper bool
		ok     bool
	}{
		{"proper", map[string]string{"proper": "Sirius", "hip": "32349"}, "Sirius", true, true},
		{"flamsteed bayer", map[string]string{"flam": "61", "bayer": "Cyg", "gl": "820A"}, "61 Cyg", false, true},
		{"bayer without flamsteed", map[string]string{"bayer": "Alp", "gl": "559A"}, "Gliese 559A", false, true},
		{"hr", map[string]string{"hr": "1084", "hd": "22049"}, "HR 1084", false, true},
		{"hd", map[string]string{"hd": "22049", "hip": "16537"}, "HD 22049", false, true},
		{"hip", map[string]string{"hip": "16537", "hyg": "16496"}, "HIP 16537", false, true},
		{"hyg", map[string]string{"hyg": "16496", "tyc": "5296-1533-1"}, "HYG 16496", false, true},
		{"tyc", map[string]string{"tyc": "5296-1533-1"}, "TYC 5296-1533-1", false, true},
		{"nothing", map[string]string{"id": "9"}, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, proper, ok := ResolveName(athygRow(tt.cells))
			require.Equal(t, tt.want, name)
			require.Equal(t, tt.proper, proper)
			require.Equal(t, tt.ok, ok)
		})
	}
}

func TestFilter_Select(t *testing.T) {
	base := func(overrides map[string]string) Row {
		cells := map[string]string{
			"hip": "1", "dist": "100", "mag": "9", "absmag": "3", "ci": "0.6",
			"x0": "1", "y0": "2", "z0": "3",
		}
		for k, v := range overrides {
			cells[k] = v
		}

		return athygRow(cells)
	}

	f, err := NewFilter()
	require.NoError(t, err)

	tests := []struct {
		name string
		row  Row
		keep bool
	}{
		{"faint and far", base(nil), false},
		{"close", base(map[string]string{"dist": "49.9"}), true},
		{"at distance limit", base(map[string]string{"dist": "50"}), false},
		{"visible", base(map[string]string{"mag": "5.5"}), true},
		{"bright", base(map[string]string{"absmag": "0.5"}), true},
		{"no apparent magnitude", base(map[string]string{"mag": ""}), false},
		{"sol excluded", base(map[string]string{"dist": "0", "proper": "Sol"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			star, keep, err := f.Select(tt.row)
			require.NoError(t, err)
			require.Equal(t, tt.keep, keep)
			if keep {
				require.Equal(t, "HIP 1", star.Name)
			}
		})
	}

	missing := map[string]map[string]string{
		"dist":   {"dist": ""},
		"absmag": {"absmag": "", "dist": "1"},
		"ci":     {"ci": "", "dist": "1"},
	}
	for column, overrides := range missing {
		t.Run("missing "+column, func(t *testing.T) {
			_, keep, err := f.Select(base(overrides))
			require.ErrorIs(t, err, errs.ErrMalformedRecord)
			require.Contains(t, err.Error(), column)
			require.False(t, keep)
		})
	}
}

func TestFilter_Options(t *testing.T) {
	f, err := NewFilter(
		WithMaxDistance(10),
		WithMaxApparentMag(-1),
		WithMaxAbsoluteMag(-5),
		WithExclude("Proxima Centauri"),
	)
	require.NoError(t, err)

	row := athygRow(map[string]string{
		"proper": "Sol", "dist": "0", "mag": "-26", "absmag": "4.85", "ci": "0.656",
		"x0": "0", "y0": "0", "z0": "0", "spect": "G2V",
	})
	star, keep, err := f.Select(row)
	require.NoError(t, err)
	require.True(t, keep, "Sol is kept once the exclusion list is replaced")
	require.Equal(t, "Sol", star.Name)

	row = athygRow(map[string]string{
		"proper": "Proxima Centauri", "dist": "1.3", "mag": "11", "absmag": "15.5", "ci": "1.8",
		"x0": "0", "y0": "0", "z0": "0",
	})
	_, keep, err = f.Select(row)
	require.NoError(t, err)
	require.False(t, keep)

	_, err = NewFilter(WithMaxDistance(math.NaN()))
	require.Error(t, err)
}
