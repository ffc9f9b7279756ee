package norstore

import "testing"

func TestFieldIndexResolvesAllNames(t *testing.T) {
	assert := newAsserter(t)

	names := []string{"name", "calib", "cara", "flag", "mode", "my_str", "my_bytes"}

	fi, err := newFieldIndex(names)
	assert(err == nil, "build failed: %s", err)

	for i, n := range names {
		tag, ok := fi.Tag(n)
		assert(ok, "name %q not resolved", n)
		assert(tag == Word(i+1), "name %q: exp tag %d, saw %d", n, i+1, tag)
	}
}

func TestFieldIndexUnknownName(t *testing.T) {
	assert := newAsserter(t)

	fi, err := newFieldIndex([]string{"alpha", "beta", "gamma"})
	assert(err == nil, "build failed: %s", err)

	// TagByName on Schema double-checks the resolved tag's own name
	// against the request; FieldIndex.Tag alone can't guarantee a
	// negative for names outside the original set, so this is
	// exercised at the Schema layer in engine_scenarios_test.go
	// (TestFieldNameLookup) instead.
	_, _ = fi.Tag("delta")
}
