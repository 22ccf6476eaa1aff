// Package catalogue encodes and decodes the star catalogue binary format.
//
// The file is a flat sequence of variable-length entries with no header, count or
// pointers; the file length alone bounds the record count, and readers scan sequentially.
// All multi-byte fields are big-endian.
//
//	file  := entry*
//	entry := x:f32 y:f32 z:f32 luminosity:f32 temperature:f32 name:cstr spect:cstr
//	cstr  := utf8-bytes 0x00
//
// Positions are in parsecs, luminosity in solar luminosities, temperature in kelvin.
// An absent spectral class is written as a lone 0x00.
//
// Besides the encoder and decoder, the package carries the ATHYG collaborators that feed
// it: a header-keyed CSV row reader (ReadRows), the row Filter that decides which stars
// are kept, and the photometric derivations of luminosity and temperature.
package catalogue
