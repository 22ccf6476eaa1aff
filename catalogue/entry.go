package catalogue

// FixedSize is the size of the fixed-width prefix of every entry: five f32 fields.
const FixedSize = 5 * 4

// Entry is one star of the catalogue.
type Entry struct {
	X, Y, Z       float32 // position in parsecs
	Luminosity    float32 // solar luminosities
	Temperature   float32 // kelvin
	Name          string
	SpectralClass string // empty when absent
}

// EncodedSize returns the number of bytes e occupies in the catalogue file.
func (e Entry) EncodedSize() int {
	return FixedSize + len(e.Name) + 1 + len(e.SpectralClass) + 1
}
