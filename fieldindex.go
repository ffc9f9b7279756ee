// fieldindex.go -- field-name to tag lookup, built on BBHash
//
// A runtime caller that only has a field name in hand (a debugger, a
// config importer) needs a way to resolve it to a tag without knowing
// the schema at compile time, so FieldIndex wraps a BBHash over the
// schema's field names, built once at NewSchema time.
package norstore

import (
	"fmt"
)

// FieldIndex maps a field's name to its tag in O(1), using a minimal
// perfect hash over the name set fixed at construction.
type FieldIndex struct {
	bb   *BBHash
	tags []Word // tags[bb.Find(nameKey)-1] == tag for the name that produced nameKey
}

// newFieldIndex builds a FieldIndex for the given ordered field names.
// names[i] is assigned tag i+1, matching the schema's own 1-based
// declaration-order tag assignment.
func newFieldIndex(names []string) (*FieldIndex, error) {
	keys := make([]uint64, len(names))
	for i, n := range names {
		keys[i] = fieldNameKey(n)
	}

	bb, err := New(Gamma, keys)
	if err != nil {
		return nil, fmt.Errorf("norstore: build field index: %w", err)
	}

	tags := make([]Word, len(names))
	for i, k := range keys {
		rank := bb.Find(k)
		if rank == 0 || int(rank) > len(tags) {
			return nil, fmt.Errorf("norstore: field index: unresolved name %q", names[i])
		}
		tags[rank-1] = Word(i + 1)
	}

	return &FieldIndex{bb: bb, tags: tags}, nil
}

// Tag returns the tag assigned to name and true, or (0, false) if name
// was not part of the schema this index was built from. A name outside
// the original set may alias a real rank by chance; the caller-side
// verification in Schema.TagByName (matching field name against the
// schema's own slice) is what actually guards against that.
func (fi *FieldIndex) Tag(name string) (Word, bool) {
	rank := fi.bb.Find(fieldNameKey(name))
	if rank == 0 || int(rank) > len(fi.tags) {
		return 0, false
	}
	return fi.tags[rank-1], true
}

// fieldNameKey turns a field name into the uint64 key BBHash operates
// on, using the same mix() used for probing so field names hash well
// even when short and similar ("mode" vs "flag").
func fieldNameKey(name string) uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= 1099511628211 // FNV prime
	}
	return mix(h)
}
