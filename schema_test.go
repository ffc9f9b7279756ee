// schema_test.go -- test suite for Schema (SCHEMA)
package norstore

import "testing"

func simpleFields() []FieldDef {
	return []FieldDef{
		ScalarField[uint32]("a"),
		ScalarField[uint32]("b"),
		StringField("label", 16),
	}
}

const (
	simpleTagA Tag = iota + 1
	simpleTagB
	simpleTagLabel
)

func TestSchemaRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	mem := NewRAMRegion(0x100)
	s, err := NewSchema(mem, simpleFields(), NewCRC32Hasher())
	assert(err == nil, "new schema failed: %s", err)

	assert(SetScalar(s, simpleTagA, uint32(9)) == nil, "set a failed")

	v, ok, err := GetScalar[uint32](s, simpleTagA)
	assert(err == nil, "get a failed: %s", err)
	assert(ok, "field a should be set")
	assert(v == 9, "exp 9, saw %d", v)
}

func TestSchemaIndependence(t *testing.T) {
	assert := newAsserter(t)

	mem := NewRAMRegion(0x100)
	s, err := NewSchema(mem, simpleFields(), NewCRC32Hasher())
	assert(err == nil, "new schema failed: %s", err)

	assert(SetScalar(s, simpleTagA, uint32(1)) == nil, "set a failed")
	assert(SetScalar(s, simpleTagB, uint32(2)) == nil, "set b failed")
	assert(SetScalar(s, simpleTagA, uint32(100)) == nil, "second set a failed")

	a, _, _ := GetScalar[uint32](s, simpleTagA)
	b, _, _ := GetScalar[uint32](s, simpleTagB)
	assert(a == 100, "field a clobbered by field b's set: saw %d", a)
	assert(b == 2, "field b clobbered by field a's set: saw %d", b)
}

func TestSchemaUnsetFieldReturnsFalse(t *testing.T) {
	assert := newAsserter(t)

	mem := NewRAMRegion(0x100)
	s, err := NewSchema(mem, simpleFields(), NewCRC32Hasher())
	assert(err == nil, "new schema failed: %s", err)

	v, ok, err := GetScalar[uint32](s, simpleTagA)
	assert(err == nil, "get on unset field errored: %s", err)
	assert(!ok, "unset field reported ok")
	assert(v == 0, "unset field should decode to zero value, saw %d", v)
}

func TestSchemaStringTooLong(t *testing.T) {
	assert := newAsserter(t)

	mem := NewRAMRegion(0x100)
	s, err := NewSchema(mem, simpleFields(), NewCRC32Hasher())
	assert(err == nil, "new schema failed: %s", err)

	err = s.SetString(simpleTagLabel, "this string is far too long to fit")
	assert(err != nil, "expected oversized string to be rejected")
}

func TestSchemaDebugFormat(t *testing.T) {
	assert := newAsserter(t)

	mem := NewRAMRegion(0x100)
	s, err := NewSchema(mem, simpleFields(), NewCRC32Hasher())
	assert(err == nil, "new schema failed: %s", err)

	assert(SetScalar(s, simpleTagA, uint32(9)) == nil, "set a failed")
	assert(s.SetString(simpleTagLabel, "hi") == nil, "set label failed")

	out := s.Format("Demo")
	assert(out == `Demo { a: 9, b: <unset>, label: "hi" }`, "unexpected Format output: %s", out)
}

// TestSchemaDebugFormatRendersBoolTyped proves Format decodes a scalar
// through its field's declared Type rather than printing a raw
// unsigned magnitude: a bool field must render as "true"/"false", not
// "1"/"0".
func TestSchemaDebugFormatRendersBoolTyped(t *testing.T) {
	assert := newAsserter(t)

	fields := []FieldDef{ScalarField[bool]("flag")}
	mem := NewRAMRegion(0x100)
	s, err := NewSchema(mem, fields, NewCRC32Hasher())
	assert(err == nil, "new schema failed: %s", err)

	assert(SetScalar(s, Tag(1), true) == nil, "set flag failed")

	out := s.Format("Demo")
	assert(out == `Demo { flag: true }`, "expected typed bool rendering, saw %s", out)
}

// TestSchemaScalarTypeMismatchPanics proves a field declared with one
// scalar type can't be silently read back (or written) as another: the
// declared Type on FieldDef is the single source of truth SetScalar
// and GetScalar check against.
func TestSchemaScalarTypeMismatchPanics(t *testing.T) {
	mem := NewRAMRegion(0x100)
	s, err := NewSchema(mem, simpleFields(), NewCRC32Hasher())
	if err != nil {
		t.Fatalf("new schema failed: %s", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected GetScalar[uint8] on a uint32 field to panic")
		}
	}()

	if err := SetScalar(s, simpleTagA, uint32(42)); err != nil {
		t.Fatalf("set a failed: %s", err)
	}
	_, _, _ = GetScalar[uint8](s, simpleTagA)
}

// TestSchemaScalarFieldRequiresType proves a Scalar field declared
// without a Type (bypassing ScalarField) is rejected at schema
// construction rather than accepted and misread later.
func TestSchemaScalarFieldRequiresType(t *testing.T) {
	mem := NewRAMRegion(0x100)
	fields := []FieldDef{{Name: "untyped", Kind: KindScalar}}

	_, err := NewSchema(mem, fields, NewCRC32Hasher())
	if err == nil {
		t.Fatalf("expected untyped scalar field to be rejected")
	}
}
