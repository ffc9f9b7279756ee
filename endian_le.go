// endian_le.go -- endian conversion routines for little-endian archs.
// This file is for little endian systems; thus conversion _to_ little-endian
// format is idempotent.
// We build this file into all arch's that are LE. We list them in the build
// constraints below
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build 386 || amd64 || arm || arm64 || ppc64le || mipsle || mips64le

package norstore

// ToLittleEndianWord is a no-op on little-endian archs.
func ToLittleEndianWord(v uint32) uint32 {
	return v
}

// ToBigEndianWord converts a native Word to its big-endian byte pattern
// representation, on an arch whose native order is little-endian.
func ToBigEndianWord(v uint32) uint32 {
	return ((v & 0x000000ff) << 24) |
		((v & 0x0000ff00) << 8) |
		((v & 0x00ff0000) >> 8) |
		((v & 0xff000000) >> 24)
}
