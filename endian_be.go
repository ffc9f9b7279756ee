// endian_be.go -- endian conversion routines for big-endian archs.
// This file is for big-endian systems; thus conversion _to_ big-endian
// format is idempotent.
// We build this file into all arch's that are BE. We list them in the build
// constraints below
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build ppc64 || mips || mips64

package norstore

// ToLittleEndianWord converts a native Word to its little-endian byte
// pattern representation, on an arch whose native order is big-endian.
func ToLittleEndianWord(v uint32) uint32 {
	return ((v & 0x000000ff) << 24) |
		((v & 0x0000ff00) << 8) |
		((v & 0x00ff0000) >> 8) |
		((v & 0xff000000) >> 24)
}

// ToBigEndianWord is a no-op on big-endian archs.
func ToBigEndianWord(v uint32) uint32 {
	return v
}
