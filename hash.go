// hash.go -- resettable 32-bit checksum contract for the record store
//
// The engine never picks a hash algorithm itself; it consumes whatever
// Hasher32 the caller provides, so the same record can be protected by
// a cheap CRC in one deployment and a keyed MAC in another without any
// change to Engine, Schema or the on-storage format.

package norstore

// Hasher32 is a resettable, incremental 32-bit checksum over streams
// of words. All validation and generation within a single call use one
// instance across a (header-minus-crc || payload-including-pad)
// sequence: Reset, then one or more Write calls, then Sum.
type Hasher32 interface {
	// Reset returns the hasher to its initial state.
	Reset()

	// Write absorbs a run of words, each taken as its four
	// little-endian bytes (lowest-address byte first), regardless
	// of host byte order.
	Write(ws []Word)

	// Sum returns the current checksum. It does not mutate state.
	Sum() uint32
}

// feedWords is the shared helper every Hasher32 implementation in this
// package uses to turn a word run into the canonical little-endian
// byte stream the spec's CRC input order requires. Word values passed
// in are already logical values (see mem.go / mmap.go for the
// native-byte-order <-> logical-value conversion at the storage
// boundary), so this is a plain numeric decomposition, independent of
// host byte order.
func feedWords(ws []Word, feed func([]byte)) {
	var b [WordSize]byte
	for _, w := range ws {
		b[0] = byte(w)
		b[1] = byte(w >> 8)
		b[2] = byte(w >> 16)
		b[3] = byte(w >> 24)
		feed(b[:])
	}
}
