// bbhash_test.go -- test suite for bbhash
package norstore

import (
	"testing"

	"github.com/opencoff/go-fasthash"
)

var keyw = []string{
	"expectoration",
	"mizzenmastman",
	"stockfather",
	"pictorialness",
	"villainous",
	"unquality",
	"sized",
	"Tarahumari",
	"endocrinotherapy",
	"quicksandy",
}

func TestBBHashSimple(t *testing.T) {
	assert := newAsserter(t)

	keys := make([]uint64, len(keyw))

	for i, s := range keyw {
		h := fasthash.Hash64(0xdeadbeefbaadf00d, []byte(s))
		keys[i] = h
	}

	b, err := New(2.0, keys)
	assert(err == nil, "construction failed: %s", err)

	for i, k := range keys {
		j := b.Find(k)
		assert(j > 0, "can't find key %d: %#x", i, k)
		assert(j <= uint64(len(keys)), "key %d <%#x> mapping %d out-of-bounds", i, k, j)
	}
}
