// version.go -- schema fingerprint stored at the reserved tag-0 slot
//
// Tag 0 carries a fasthash.Hash64 fingerprint of the schema's declared
// shape, letting Schema.Init detect a mismatched schema across process
// restarts of the same region instead of silently misreading records
// written under a previous field list.
package norstore

import (
	"encoding/binary"

	"github.com/opencoff/go-fasthash"
)

const schemaFingerprintSalt uint64 = 0x6e6f72_73746f72 // ASCII "norstor" read as a salt

// schemaFingerprint hashes the declared (name, kind, size, concrete
// Go type) of every field, in declaration order, into a single
// uint64. Any change to the field list, its order, a field's size, or
// -- critically for Scalar fields -- its concrete Go type (uint8 vs.
// uint32, or a named enum vs. its underlying type) changes the
// fingerprint, since Type.String() is fed in alongside Kind/Size
// rather than trusting the caller's call-site type parameter alone.
func schemaFingerprint(fields []FieldDef) uint64 {
	var buf []byte
	for _, f := range fields {
		buf = append(buf, []byte(f.Name)...)
		buf = append(buf, 0)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(f.Kind))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(f.Size))
		if f.Type != nil {
			buf = append(buf, []byte(f.Type.String())...)
		}
		buf = append(buf, 0)
	}
	return fasthash.Hash64(schemaFingerprintSalt, buf)
}

// encodeFingerprint packs v into 8 little-endian bytes, the raw
// payload written to tag 0. This bypasses the Scalar-constrained
// generic accessors entirely: those exist to protect typed
// direct-reinterpretation getters, and nothing ever reinterprets the
// tag-0 slot as a typed field.
func encodeFingerprint(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func decodeFingerprint(b []byte) (uint64, bool) {
	if len(b) != 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}
