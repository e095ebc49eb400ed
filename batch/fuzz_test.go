package batch_test

import (
	"testing"

	"github.com/hasbyte1/go-batch/batch"
)

// FuzzResolve ensures that key resolution never panics on arbitrary key
// expressions and always returns either a payload or a well-typed
// error.
//
// Run with: go test -fuzz=FuzzResolve ./batch/
func FuzzResolve(f *testing.F) {
	b := batch.New(
		batch.KV("input", batch.New(batch.KV("image", []int{1, 2}), batch.KV("state", 3))),
		batch.KV("input_ids", []int{7, 8, 9}),
		batch.KV("target", "label"),
	)

	for _, seed := range []string{
		"", "input", "input.image", "input.image.deep", "input..image",
		"_hidden", "*", "input*", "[", "[]a", "a.*.b", ".", "...",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, key string) {
		// Must not panic; error is acceptable.
		_, _ = b.At(key)
		_ = b.Has(key)
	})
}

// FuzzSet ensures that Set accepts or rejects arbitrary keys without
// panicking, and that every accepted key resolves back to its payload.
func FuzzSet(f *testing.F) {
	for _, seed := range []string{
		"a", "a.b", "a.b.c", "", "_x", "x._y", "..", "k.", ".k",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, key string) {
		b := batch.Empty()
		if err := b.Set(key, 42); err != nil {
			return
		}
		v, err := b.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) failed after Set succeeded: %v", key, err)
		}
		if v != 42 {
			t.Fatalf("Get(%q) = %v after Set(42)", key, v)
		}
	})
}

// FuzzFromJSON ensures that FromJSON never panics on arbitrary input
// and that everything it accepts can be marshalled back.
func FuzzFromJSON(f *testing.F) {
	for _, seed := range []string{
		``, `{}`, `{"a": 1}`, `{"a": {"b": [1, 2]}}`, `[1]`, `{"_r": 0}`,
		`{"a": 1e999}`, `{"": 1}`, `nul`,
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		b, err := batch.FromJSON(data)
		if err != nil {
			return
		}
		if _, err := b.ToJSON(); err != nil {
			t.Fatalf("ToJSON failed after FromJSON accepted %q: %v", data, err)
		}
	})
}

// FuzzSizesFromYAML ensures that size-layout parsing never panics on
// arbitrary documents.
func FuzzSizesFromYAML(f *testing.F) {
	for _, seed := range []string{
		"", "a: 1", "a:\n  b: 2\nc: 3", "- 1", "a: [1]", "a: x", "a: -1",
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		sizes, err := batch.SizesFromYAML(data)
		if err != nil {
			return
		}
		// Accepted sizes must report a total without panicking.
		_ = sizes.Total()
	})
}
