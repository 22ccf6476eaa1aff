// Package endian provides the byte order engine used by the starbin writers and decoders.
//
// Every starbin artifact is big-endian so the runtime loader can read it with a
// big-endian ByteBuffer and no conversion. EndianEngine combines ByteOrder and
// AppendByteOrder from encoding/binary so the writer can both patch in place
// (PutUint32) and append (AppendUint32) through one value.
//
//	engine := endian.GetBigEndianEngine()
//	buf = engine.AppendUint32(buf, math.Float32bits(x))
//
// # Thread Safety
//
// The returned EndianEngine values are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine used by all starbin formats.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
