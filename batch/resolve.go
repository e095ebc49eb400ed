package batch

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/hasbyte1/go-batch/operand"
)

// At resolves one key expression against the batch:
//
//   - nil is the batch itself
//   - a plain string is a [Batch.Get], dotted paths included
//   - a string containing "*" is a wildcard [Batch.Query]
//   - a []string is a [Batch.Select]
//   - anything else is handed to the payloads via [Batch.AtIndex]
//
// The result is either a payload (plain string) or a *Batch (all other
// forms).
func (b *Batch) At(expr any) (any, error) {
	switch ix := expr.(type) {
	case nil:
		return b, nil
	case string:
		if strings.Contains(ix, "*") {
			return b.Query(ix)
		}
		return b.Get(ix)
	case []string:
		return b.Select(ix...)
	}
	return b.AtIndex(expr)
}

// Select returns a new Batch holding the requested keys, in the
// requested order, with payloads shared. Dotted paths are resolved and
// stored under their terminal segment:
//
//	b.Select("input.image", "target")  // keys: image, target
//
// Two distinct paths landing on the same terminal name collide. A
// missing key fails with [ErrKeyNotFound].
func (b *Batch) Select(keys ...string) (*Batch, error) {
	out := Empty()
	source := make(map[string]string, len(keys))
	for _, key := range keys {
		v, err := b.lookup(key, true)
		if err != nil {
			return nil, err
		}
		name := key
		if i := strings.LastIndex(key, keySep); i >= 0 {
			name = key[i+1:]
		}
		if prev, exists := source[name]; exists && prev != key {
			return nil, fmt.Errorf("%w: %q and %q both select %q", ErrKeyCollision, prev, key, name)
		}
		source[name] = key
		if err := out.setLeaf(name, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Query returns a new Batch holding every top-level entry whose key
// matches any of the wildcard patterns, in container order, payloads
// shared. Patterns use glob syntax: "*" and "?" wildcards plus
// character classes. No match is not an error; the result is an empty
// batch.
func (b *Batch) Query(patterns ...string) (*Batch, error) {
	globs := make([]glob.Glob, len(patterns))
	for i, pat := range patterns {
		g, err := glob.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, pat, err)
		}
		globs[i] = g
	}
	out := Empty()
	for _, k := range b.keys {
		for _, g := range globs {
			if !g.Match(k) {
				continue
			}
			if err := out.setLeaf(k, b.values[k]); err != nil {
				return nil, err
			}
			break
		}
	}
	return out, nil
}

// AtIndex applies one index to every payload and collects the results
// under the same keys. Nested Batches recurse; other payloads receive
// the index through [operand.Index], so ints (negative counts from the
// end), [operand.Range] spans, []int gather lists and any
// payload-specific form all work. The first payload that rejects the
// index fails the whole operation.
func (b *Batch) AtIndex(index any) (*Batch, error) {
	out := Empty()
	for _, k := range b.keys {
		v := b.values[k]
		var r any
		var err error
		if nb, ok := v.(*Batch); ok {
			r, err = nb.AtIndex(index)
		} else {
			r, err = operand.Index(v, index)
		}
		if err != nil {
			return nil, wrapKey(k, err)
		}
		if err := out.setLeaf(k, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}
