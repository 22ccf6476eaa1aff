package catalogue

import (
	"fmt"
	"math"

	"github.com/arloliu/starbin/errs"
)

// Star is a catalogue entry together with the source quantities it was derived from.
type Star struct {
	Entry

	Proper     bool // Name is the star's proper name rather than a catalogue designation
	Distance   float64
	AbsMag     float64
	ColorIndex float64
}

// Luminosity converts an absolute visual magnitude to solar luminosities.
//
// The 1/0.9 factor calibrates the scale so that the Sun (absmag 4.85) comes out at
// roughly 1.
func Luminosity(absMag float64) float64 {
	return (1 / 0.9) * math.Pow(10, 0.4*(4.74-absMag))
}

// Temperature estimates the effective temperature in kelvin from a B-V color index
// (Ballesteros' formula).
func Temperature(colorIndex float64) float64 {
	return 4600 * (1/(0.92*colorIndex+1.7) + 1/(0.92*colorIndex+0.62))
}

// Derive builds a Star from an ATHYG row. The row must carry absmag, ci and the x0, y0,
// z0 position columns; name resolution follows ResolveName.
func Derive(row Row) (Star, error) {
	var star Star
	var err error

	if star.AbsMag, err = row.requireFloat("absmag"); err != nil {
		return Star{}, err
	}
	if star.ColorIndex, err = row.requireFloat("ci"); err != nil {
		return Star{}, err
	}
	if star.Distance, _, err = row.Float("dist"); err != nil {
		return Star{}, err
	}

	var pos [3]float64
	for i, column := range [...]string{"x0", "y0", "z0"} {
		if pos[i], err = row.requireFloat(column); err != nil {
			return Star{}, err
		}
	}

	name, proper, ok := ResolveName(row)
	if !ok {
		return Star{}, fmt.Errorf("%w: line %d: no proper name or catalogue designation", errs.ErrMalformedRecord, row.Line)
	}

	spect, _ := row.Get("spect")

	star.Proper = proper
	star.Entry = Entry{
		X:             float32(pos[0]),
		Y:             float32(pos[1]),
		Z:             float32(pos[2]),
		Luminosity:    float32(Luminosity(star.AbsMag)),
		Temperature:   float32(Temperature(star.ColorIndex)),
		Name:          name,
		SpectralClass: spect,
	}

	return star, nil
}

// designations are tried in order when a star has neither a proper name nor a
// Flamsteed-Bayer designation.
var designations = [...]struct{ column, prefix string }{
	{"gl", "Gliese"},
	{"hr", "HR"},
	{"hd", "HD"},
	{"hip", "HIP"},
	{"hyg", "HYG"},
	{"tyc", "TYC"},
}

// ResolveName picks the display name of a row: the proper name, then "<flam> <bayer>",
// then the first present catalogue designation. proper reports whether the proper name
// was used; ok is false when the row has no usable name at all.
func ResolveName(row Row) (name string, proper, ok bool) {
	if name, ok := row.Get("proper"); ok {
		return name, true, true
	}

	flam, hasFlam := row.Get("flam")
	bayer, hasBayer := row.Get("bayer")
	if hasFlam && hasBayer {
		return flam + " " + bayer, false, true
	}

	for _, d := range designations {
		if id, ok := row.Get(d.column); ok {
			return d.prefix + " " + id, false, true
		}
	}

	return "", false, false
}
