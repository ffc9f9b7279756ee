// schema.go -- typed field projection over the append-only log (SCHEMA)
//
// A schema is a compile-time-declared, ordered list of named, typed
// fields. Each field gets a stable 1-based tag and a pair of typed
// accessors (SetScalar/GetScalar, SetString/GetString, SetBytes/
// GetBytes) that serialize values to and from the record log. Scalar
// is the compile-time fence that keeps any field's underlying
// representation to one word or less, since every type satisfying it
// is representable in 4 bytes or fewer.
package norstore

import (
	"fmt"
	"reflect"
)

// FieldKind classifies how a field's payload is interpreted: a
// fixed-size primitive, a static string, or a static byte slice.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindString
	KindBytes
)

// FieldDef is one entry of a compile-time field list. Size is the
// fixed payload size in bytes for String/Bytes fields. For Scalar
// fields, Type is the single source of truth: NewSchema derives Size
// from it, and every subsequent Set/Get/Format call is checked against
// it, so a field declared as one scalar type can never be silently
// read back as another.
type FieldDef struct {
	Name string
	Kind FieldKind
	Size int
	Type reflect.Type
}

// ScalarField declares a fixed-size scalar field of type T, deriving
// its payload size and type identity from T itself rather than
// requiring the caller to restate them.
func ScalarField[T Scalar](name string) FieldDef {
	var zero T
	t := reflect.TypeOf(zero)
	return FieldDef{Name: name, Kind: KindScalar, Size: int(t.Size()), Type: t}
}

// StringField declares a string field whose payload may never exceed
// size bytes.
func StringField(name string, size int) FieldDef {
	return FieldDef{Name: name, Kind: KindString, Size: size}
}

// BytesField declares a byte-slice field whose payload may never
// exceed size bytes.
func BytesField(name string, size int) FieldDef {
	return FieldDef{Name: name, Kind: KindBytes, Size: size}
}

// Scalar constrains the set of Go types schema fields may use for
// KindScalar. Every satisfying type's underlying representation fits
// in one word, so no Scalar field can violate the word-alignment
// constraint enforced below at schema-construction time.
type Scalar interface {
	~uint8 | ~uint16 | ~uint32 | ~int8 | ~int16 | ~int32 | ~bool
}

// Tag is a field's 1-based declaration index, the enum-like key every
// accessor below is keyed by. Callers normally declare their own named
// Tag constants next to a FieldDef list (conventionally via iota), so
// that a schema's generated-by-hand wrapper methods -- e.g.
// SetMode(m Mode) calling SetScalar(sch, tagMode, m) -- read as a
// named, typed surface even though the engine underneath it is one
// generic accessor.
type Tag int

// Schema owns the append-only engine, the descriptor table indexed by
// tag, the declared field list, and a name->tag index for callers that
// only have a field name at runtime.
type Schema struct {
	engine *Engine
	table  []RecordDesc
	fields []FieldDef
	index  *FieldIndex
	hasher Hasher32
}

// NewSchema declares a schema of fields over mem, in 1-based
// declaration order (table[0] is the reserved tag-0 slot). hasher is
// the HASH implementation used for every Update and, when
// re-validation is requested, every Get.
//
// Every Scalar field must carry a Type (set by ScalarField); its Size
// is recomputed from Type here rather than trusted from the caller, so
// Size and Type can never drift apart. A Type wider than one word is
// rejected: the alignment constraint this package guarantees.
func NewSchema(mem StorageMem, fields []FieldDef, hasher Hasher32) (*Schema, error) {
	resolved := make([]FieldDef, len(fields))
	names := make([]string, len(fields))
	for i, f := range fields {
		if f.Kind == KindScalar {
			if f.Type == nil {
				return nil, fmt.Errorf("norstore: field %q: scalar field declared with no type", f.Name)
			}
			if f.Type.Size() > WordSize {
				return nil, fmt.Errorf("norstore: field %q: type %s exceeds word alignment", f.Name, f.Type)
			}
			f.Size = int(f.Type.Size())
		}
		resolved[i] = f
		names[i] = f.Name
	}

	idx, err := newFieldIndex(names)
	if err != nil {
		return nil, err
	}

	table := make([]RecordDesc, len(resolved)+1)
	for i := range table {
		table[i].Tag = Word(i)
	}

	return &Schema{
		engine: NewEngine(mem),
		table:  table,
		fields: resolved,
		index:  idx,
		hasher: hasher,
	}, nil
}

// Init scans the region and reports InitStats plus whether the stored
// schema fingerprint (if any) matches this schema's current shape.
// schemaVersionOK is true both when the fingerprints match and when no
// fingerprint has ever been written (a fresh region).
func (s *Schema) Init() (InitStats, bool) {
	stats := s.engine.Init(s.table, s.hasher)

	want := schemaFingerprint(s.fields)
	if !s.table[0].Located() {
		return stats, true
	}

	got, err := s.engine.Get(&s.table[0], nil)
	if err != nil || got == nil {
		return stats, true
	}
	fp, ok := decodeFingerprint(got)
	if !ok {
		return stats, false
	}
	return stats, fp == want
}

// StampVersion (re)writes the tag-0 fingerprint record. Callers
// typically call this once, right after the schema is first populated
// on a freshly erased region.
func (s *Schema) StampVersion() error {
	fp := schemaFingerprint(s.fields)
	return s.engine.Update(&s.table[0], encodeFingerprint(fp), s.hasher)
}

// field resolves a Tag to its FieldDef, or panics -- an out-of-range
// tag is a programmer error, not a runtime condition the caller can
// recover from.
func (s *Schema) field(tag Tag) FieldDef {
	if tag < 1 || int(tag) > len(s.fields) {
		panic("norstore: field tag out of range")
	}
	return s.fields[tag-1]
}

// desc resolves a Tag to its descriptor slot.
func (s *Schema) desc(tag Tag) *RecordDesc {
	return &s.table[tag]
}

// SetScalar stores v as field tag's payload. v's concrete type must
// match the Type the field was declared with (via ScalarField); a
// mismatch is a programmer error, not a recoverable condition, so it
// panics rather than silently writing the wrong width.
func SetScalar[T Scalar](s *Schema, tag Tag, v T) error {
	fd := s.field(tag)
	if fd.Kind != KindScalar {
		panic(fmt.Sprintf("norstore: field %q is not a scalar field", fd.Name))
	}
	if got := reflect.TypeOf(v); got != fd.Type {
		panic(fmt.Sprintf("norstore: field %q declared as %s, set called with %s", fd.Name, fd.Type, got))
	}
	return s.engine.Update(s.desc(tag), encodeScalar(v), s.hasher)
}

// GetScalar returns field tag's current value, or the zero value and
// false if it has never been set. T must match the Type the field was
// declared with; a mismatch panics rather than reinterpreting another
// type's raw bytes.
func GetScalar[T Scalar](s *Schema, tag Tag) (T, bool, error) {
	var zero T
	fd := s.field(tag)
	if fd.Kind != KindScalar {
		panic(fmt.Sprintf("norstore: field %q is not a scalar field", fd.Name))
	}
	if got := reflect.TypeOf(zero); got != fd.Type {
		panic(fmt.Sprintf("norstore: field %q declared as %s, get called as %s", fd.Name, fd.Type, got))
	}

	raw, err := s.engine.Get(s.desc(tag), s.hasher)
	if err != nil {
		return zero, false, err
	}
	if raw == nil {
		return zero, false, nil
	}
	return decodeScalar[T](raw), true, nil
}

// encodeScalar serializes v to little-endian raw bytes, sized by its
// underlying kind. reflect.ValueOf(v).Kind() is used instead of a type
// switch on any(v) so that named types (e.g. an enum declared as
// `type Mode uint8`) are handled by their underlying representation
// rather than falling through.
func encodeScalar[T Scalar](v T) []byte {
	rv := reflect.ValueOf(v)
	var bits uint64
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		bits = uint64(rv.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		bits = rv.Uint()
	}
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return []byte{1}
		}
		return []byte{0}
	case reflect.Uint8, reflect.Int8:
		return []byte{byte(bits)}
	case reflect.Uint16, reflect.Int16:
		x := uint16(bits)
		return []byte{byte(x), byte(x >> 8)}
	case reflect.Uint32, reflect.Int32:
		x := uint32(bits)
		return []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
	default:
		panic(fmt.Sprintf("norstore: unsupported scalar kind %s", rv.Kind()))
	}
}

// decodeScalarAny decodes raw into a freshly allocated value of type
// rt, returned as its boxed interface. This is the single decode path
// both decodeScalar[T] (compile-time-typed callers) and Schema.Format
// (runtime-typed, via a field's declared Type) route through, so the
// two can never disagree about how a given type's bytes are read back.
func decodeScalarAny(raw []byte, rt reflect.Type) any {
	rv := reflect.New(rt).Elem()
	switch rt.Kind() {
	case reflect.Bool:
		rv.SetBool(raw[0] != 0)
	case reflect.Uint8:
		rv.SetUint(uint64(raw[0]))
	case reflect.Int8:
		rv.SetInt(int64(int8(raw[0])))
	case reflect.Uint16:
		rv.SetUint(uint64(uint16(raw[0]) | uint16(raw[1])<<8))
	case reflect.Int16:
		rv.SetInt(int64(int16(uint16(raw[0]) | uint16(raw[1])<<8)))
	case reflect.Uint32:
		rv.SetUint(uint64(uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24))
	case reflect.Int32:
		rv.SetInt(int64(int32(uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24)))
	default:
		panic(fmt.Sprintf("norstore: unsupported scalar kind %s", rt.Kind()))
	}
	return rv.Interface()
}

// decodeScalar is encodeScalar's inverse. raw is trusted to be at
// least as long as T's representation: the engine never returns a
// record shorter than what Update wrote for that tag.
func decodeScalar[T Scalar](raw []byte) T {
	var zero T
	return decodeScalarAny(raw, reflect.TypeOf(zero)).(T)
}

// SetString stores v as field tag's payload. A value longer than the
// field's declared Size is rejected with an error, never truncated.
func (s *Schema) SetString(tag Tag, v string) error {
	fd := s.field(tag)
	if fd.Kind != KindString {
		panic(fmt.Sprintf("norstore: field %q is not a string field", fd.Name))
	}
	if len(v) > fd.Size {
		return fmt.Errorf("norstore: string value %d bytes exceeds field %q size %d", len(v), fd.Name, fd.Size)
	}
	return s.engine.Update(s.desc(tag), []byte(v), s.hasher)
}

// GetString returns field tag's current value as a string.
func (s *Schema) GetString(tag Tag) (string, bool, error) {
	raw, err := s.engine.Get(s.desc(tag), s.hasher)
	if err != nil {
		return "", false, err
	}
	if raw == nil {
		return "", false, nil
	}
	return string(raw), true, nil
}

// SetBytes stores b as field tag's payload.
func (s *Schema) SetBytes(tag Tag, b []byte) error {
	fd := s.field(tag)
	if fd.Kind != KindBytes {
		panic(fmt.Sprintf("norstore: field %q is not a bytes field", fd.Name))
	}
	if len(b) > fd.Size {
		return fmt.Errorf("norstore: byte value %d bytes exceeds field %q size %d", len(b), fd.Name, fd.Size)
	}
	return s.engine.Update(s.desc(tag), b, s.hasher)
}

// GetBytes returns field tag's current value.
func (s *Schema) GetBytes(tag Tag) ([]byte, bool, error) {
	raw, err := s.engine.Get(s.desc(tag), s.hasher)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	return raw, true, nil
}

// TagByName resolves a field's runtime name to its Tag, for callers
// that don't know the schema at compile time.
func (s *Schema) TagByName(name string) (Tag, bool) {
	wtag, ok := s.index.Tag(name)
	if !ok || int(wtag) < 1 || int(wtag) > len(s.fields) || s.fields[wtag-1].Name != name {
		return 0, false
	}
	return Tag(wtag), true
}

// Fields returns the declared field list, in declaration order.
func (s *Schema) Fields() []FieldDef {
	return s.fields
}

// EnableRevalidationCache turns on the underlying engine's
// offset-keyed revalidation cache. See Engine.EnableRevalidationCache.
func (s *Schema) EnableRevalidationCache(size int) error {
	return s.engine.EnableRevalidationCache(size)
}

// String renders region occupancy, delegating to the underlying
// engine.
func (s *Schema) String() string {
	return s.engine.String()
}
