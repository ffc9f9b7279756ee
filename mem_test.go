package norstore

import "testing"

func TestRAMRegionWriteOnceFromErased(t *testing.T) {
	assert := newAsserter(t)

	r := NewRAMRegion(4)
	for i := 0; i < r.Capacity(); i++ {
		assert(r.Read(i) == Erased, "word %d not erased initially", i)
	}

	assert(r.Write(0, 0x1234) == nil, "first write failed")
	assert(r.Read(0) == 0x1234, "readback mismatch")

	err := r.Write(0, 0x5678)
	assert(err != nil, "expected write to non-erased word to fail")

	r.Erase()
	assert(r.Read(0) == Erased, "erase did not reset word")
	assert(r.Write(0, 0x5678) == nil, "write after erase failed")
}

func TestRAMRegionReadSpan(t *testing.T) {
	assert := newAsserter(t)

	r := NewRAMRegion(8)
	for i := 0; i < 4; i++ {
		assert(r.Write(i, Word(i)) == nil, "write %d failed", i)
	}

	span := r.ReadSpan(0, 4)
	assert(len(span) == 4, "exp span len 4, saw %d", len(span))
	for i, w := range span {
		assert(w == Word(i), "span[%d]: exp %d, saw %d", i, i, w)
	}
}
