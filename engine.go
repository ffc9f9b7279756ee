// engine.go -- the append-only record log (ENG)
//
// Records may be appended repeatedly; a later record for the same tag
// supersedes an earlier one, and the whole region is rescanned from
// the start on every Init to rebuild the tag -> latest-record table
// rather than trusting any single persisted index.
package norstore

import (
	"fmt"

	"github.com/opencoff/golang-lru"
)

// RecordDesc is the in-memory pointer to the most recent valid record
// for one tag. It is never persisted; Init and Update are the only
// operations that mutate it.
type RecordDesc struct {
	Tag Word

	valid    bool
	headerAt int // word offset of the record's header
}

// Located reports whether this descriptor currently points at a valid
// record.
func (d *RecordDesc) Located() bool {
	return d.valid
}

// InitStats summarizes what Init found while scanning a region.
type InitStats struct {
	WordsWasted int
	UniqueTags  int
}

// Engine is the append log itself: a StorageMem handle plus the
// append cursor marking the first word available for the next record.
type Engine struct {
	mem StorageMem
	cur int

	// revalidated caches word-offsets that have already passed a
	// hasher-backed Get revalidation. Because a region is
	// write-once-from-erased, a record that has validated once at a
	// given offset can never change underneath it, so the result
	// never goes stale; entries are simply never invalidated.
	revalidated *lru.ARCCache
}

// NewEngine wraps mem as an (empty-until-Init'd) record log.
func NewEngine(mem StorageMem) *Engine {
	return &Engine{mem: mem}
}

// EnableRevalidationCache turns on the ARC cache of offsets known to
// have passed hasher revalidation, so repeated Get calls with a
// hasher (e.g. Schema's typed getters) skip redundant CRC
// recomputation for records that haven't moved. size is the maximum
// number of distinct offsets tracked.
func (e *Engine) EnableRevalidationCache(size int) error {
	c, err := lru.NewARC(size)
	if err != nil {
		return err
	}
	e.revalidated = c
	return nil
}

// Init scans the region from word 0, validating a candidate record at
// every offset. A valid record (payload fits, crc matches) updates
// table[tag]'s location and the scan jumps past its payload; an
// invalid one advances by a single word, so a torn header's bogus
// size field can never cause a valid later record to be skipped.
//
// table must be indexed by tag: table[i].Tag == i for every i in
// range. table[0] is the reserved tag-0 slot; the only record ever
// written to it is Schema.StampVersion's schema fingerprint.
func (e *Engine) Init(table []RecordDesc, hasher Hasher32) InitStats {
	stats := InitStats{}

	capacity := e.mem.Capacity()
	idx := 0
	lastValidEnd := 0

	for idx <= capacity-HeaderWords {
		tag, sz, ok := e.validateRecord(idx, hasher)
		if !ok {
			idx++
			continue
		}

		if int(tag) >= len(table) || table[tag].Tag != tag {
			panic("norstore: record tag does not match its table slot")
		}

		table[tag].valid = true
		table[tag].headerAt = idx

		idx += HeaderWords + wordCeil(sz)
		lastValidEnd = idx
	}

	wastedEnd := lastValidEnd
	for i := lastValidEnd; i < capacity; i++ {
		if !isErased(e.mem.Read(i)) {
			wastedEnd = i + 1
			stats.WordsWasted++
		}
	}

	if stats.WordsWasted > 0 {
		e.cur = wastedEnd
	} else {
		e.cur = lastValidEnd
	}

	for i := range table {
		if table[i].valid {
			stats.UniqueTags++
		}
	}

	return stats
}

// validateRecord attempts to parse and checksum a record candidate at
// word offset idx. It returns the decoded tag and payload size (in
// bytes) and true on success.
func (e *Engine) validateRecord(idx int, hasher Hasher32) (Word, int, bool) {
	tag := e.mem.Read(idx)
	szWord := e.mem.Read(idx + 1)
	crcStored := e.mem.Read(idx + 2)

	sz := int(szWord)
	payloadStart := idx + HeaderWords
	payloadEnd := payloadStart + wordCeil(sz)

	if payloadEnd > e.mem.Capacity() {
		return 0, 0, false
	}

	hasher.Reset()
	hasher.Write(e.mem.ReadSpan(idx, idx+2))
	hasher.Write(e.mem.ReadSpan(payloadStart, payloadEnd))

	if hasher.Sum() != crcStored {
		return 0, 0, false
	}

	return tag, sz, true
}

// Update appends a new record for desc.Tag carrying payload, then
// advances the append cursor past it. The crc is computed and written
// last, so any crash mid-write leaves the crc slot erased and the
// record fails validation at the next Init.
func (e *Engine) Update(desc *RecordDesc, payload []byte, hasher Hasher32) error {
	payloadWords := wordCeil(len(payload))
	recordWords := HeaderWords + payloadWords

	if e.freeWords() < recordWords {
		return ErrOutOfMemory
	}

	headerAt := e.cur

	if err := e.mem.Write(headerAt+0, desc.Tag); err != nil {
		return driverErr(err)
	}
	if err := e.mem.Write(headerAt+1, Word(len(payload))); err != nil {
		return driverErr(err)
	}

	payloadAt := headerAt + HeaderWords
	for i := 0; i < payloadWords; i++ {
		if err := e.mem.Write(payloadAt+i, packPayloadWord(payload, i)); err != nil {
			return driverErr(err)
		}
	}

	hasher.Reset()
	hasher.Write(e.mem.ReadSpan(headerAt, headerAt+2))
	hasher.Write(e.mem.ReadSpan(payloadAt, payloadAt+payloadWords))
	crc := hasher.Sum()

	if err := e.mem.Write(headerAt+2, crc); err != nil {
		return driverErr(err)
	}

	desc.valid = true
	desc.headerAt = headerAt
	e.cur += recordWords

	return nil
}

// packPayloadWord builds the i'th little-endian word of payload,
// padding any trailing partial word with PadByte.
func packPayloadWord(payload []byte, i int) Word {
	var b [WordSize]byte
	for j := 0; j < WordSize; j++ {
		b[j] = PadByte
	}
	start := i * WordSize
	for j := 0; j < WordSize && start+j < len(payload); j++ {
		b[j] = payload[start+j]
	}
	return Word(b[0]) | Word(b[1])<<8 | Word(b[2])<<16 | Word(b[3])<<24
}

// Get returns the current payload for desc, or nil if it has never
// been written. If hasher is non-nil, the record is re-validated
// against its stored crc before the payload is returned (skipped if an
// earlier call already proved this exact offset valid, via the
// revalidation cache).
func (e *Engine) Get(desc *RecordDesc, hasher Hasher32) ([]byte, error) {
	if !desc.valid {
		return nil, nil
	}

	storedTag := e.mem.Read(desc.headerAt)
	if storedTag != desc.Tag {
		return nil, ErrCorruptedRecordOnGet
	}

	if hasher != nil && !e.alreadyValidated(desc.headerAt) {
		_, _, ok := e.validateRecord(desc.headerAt, hasher)
		if !ok {
			return nil, ErrCrc
		}
		e.markValidated(desc.headerAt)
	}

	sz := int(e.mem.Read(desc.headerAt + 1))
	payloadAt := desc.headerAt + HeaderWords
	words := e.mem.ReadSpan(payloadAt, payloadAt+wordCeil(sz))

	return unpackPayload(words, sz), nil
}

func (e *Engine) alreadyValidated(offset int) bool {
	if e.revalidated == nil {
		return false
	}
	_, ok := e.revalidated.Get(offset)
	return ok
}

func (e *Engine) markValidated(offset int) {
	if e.revalidated == nil {
		return
	}
	e.revalidated.Add(offset, true)
}

// unpackPayload flattens words into exactly sz bytes, dropping the pad
// bytes a partial trailing word carries.
func unpackPayload(words []Word, sz int) []byte {
	out := make([]byte, sz)
	for i := 0; i < sz; i++ {
		w := words[i/WordSize]
		shift := uint(i%WordSize) * 8
		out[i] = byte(w >> shift)
	}
	return out
}

// Occupied returns the number of bytes currently in use, including
// header and pad overhead.
func (e *Engine) Occupied() int {
	return e.cur * WordSize
}

// Capacity returns the total region size in bytes.
func (e *Engine) Capacity() int {
	return e.mem.Capacity() * WordSize
}

// Free returns the number of bytes available for the next Update.
func (e *Engine) Free() int {
	return e.Capacity() - e.Occupied()
}

func (e *Engine) freeWords() int {
	return e.mem.Capacity() - e.cur
}

// String renders region occupancy in human-readable form, e.g. for
// logging after Init.
func (e *Engine) String() string {
	return fmt.Sprintf("%s used / %s total", humansize(uint64(e.Occupied())), humansize(uint64(e.Capacity())))
}
