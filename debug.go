// debug.go -- Debug projection
//
// A diagnostic-only view that enumerates every field and renders its
// current value, never re-validating CRCs -- this is off the hot path
// and must not perturb the revalidation cache's accounting.
package norstore

import (
	"fmt"
	"strings"
)

// Format renders structName's current field values as
// "structName { field: value, ... }", in declaration order. Fields
// that have never been set render as "<unset>". No hasher is used:
// a corrupted record simply renders as "<corrupted>" rather than
// returning an error, since this projection exists for diagnostics,
// not for correctness-sensitive reads.
func (s *Schema) Format(structName string) string {
	var b strings.Builder
	b.WriteString(structName)
	b.WriteString(" { ")

	for i, fd := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fd.Name)
		b.WriteString(": ")
		b.WriteString(s.formatField(Tag(i+1), fd))
	}

	b.WriteString(" }")
	return b.String()
}

func (s *Schema) formatField(tag Tag, fd FieldDef) string {
	raw, err := s.engine.Get(s.desc(tag), nil)
	if err != nil {
		return "<corrupted>"
	}
	if raw == nil {
		return "<unset>"
	}

	switch fd.Kind {
	case KindString:
		return fmt.Sprintf("%q", string(raw))
	case KindBytes:
		return fmt.Sprintf("%x", raw)
	default:
		return fmt.Sprintf("%v", decodeScalarAny(raw, fd.Type))
	}
}
