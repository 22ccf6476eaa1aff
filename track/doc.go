// Package track encodes stellar evolutionary tracks into the track grid and isochrone
// binary formats, and decodes them back.
//
// Track grid:
//
//	file  := metallicity_count:u32 metallicity:f32[metallicity_count]
//	         mass_count:u32 mass:f32[mass_count]
//	         track_ptr:u32[metallicity_count][mass_count]
//	         track*
//	track := entry_count:u16 entry[entry_count]
//	entry := independent:f32 mass:f32 luminosity:f32 temperature:f32 radius:f32 phase:i8
//
// The pointer table is dense and row-major (metallicity outer, mass inner); every slot
// holds the absolute offset of its track. Tracks follow the table in the same order.
//
// Isochrones:
//
//	file  := group_count:u32 group[group_count]
//	group := key:f32 entry_count:u32 entry[entry_count]
//
// Groups are sorted by key (log10 age) and entries by initial mass. In both formats
// luminosity, temperature and radius are linear, converted from the log10 values of the
// source tables, and entries are stable-sorted by their independent variable.
//
// The inputs are MIST tables: ParseEEP reads one .track.eep file per grid cell and
// ParseISO reads a basic .iso file.
package track
