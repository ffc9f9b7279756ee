// siphash32.go -- keyed Hasher32 alternative to CRC32Hasher
//
// Builds a siphash.New(key) hash.Hash64 over the protected bytes and
// folds Sum64 down to the 32 bits the Hasher32 contract asks for.
// Plain CRC only catches accidental corruption; a keyed siphash also
// resists a party who can flip bits but doesn't know the key.
package norstore

import (
	"github.com/dchest/siphash"
)

// SipHasher32 adapts siphash's keyed 64-bit MAC to the Hasher32
// contract, truncating to the low 32 bits of Sum64.
type SipHasher32 struct {
	key []byte
	buf []byte
}

// NewSipHasher32 returns a Hasher32 keyed with a 16-byte siphash key.
// Panics if key is not exactly 16 bytes, matching siphash.New's own
// precondition.
func NewSipHasher32(key []byte) *SipHasher32 {
	if len(key) != 16 {
		panic("norstore: siphash key must be 16 bytes")
	}
	k := make([]byte, 16)
	copy(k, key)
	return &SipHasher32{key: k}
}

func (h *SipHasher32) Reset() {
	h.buf = h.buf[:0]
}

func (h *SipHasher32) Write(ws []Word) {
	feedWords(ws, func(b []byte) {
		h.buf = append(h.buf, b...)
	})
}

func (h *SipHasher32) Sum() uint32 {
	s := siphash.New(h.key)
	s.Write(h.buf)
	return uint32(s.Sum64())
}
