package batch

import "fmt"

// Key-rewriting transforms. All of them return a new Batch with the
// payloads shared, leaving the receiver unchanged.

// MapKeys renames every key through fn, descending into nested Batches.
// Payload order is preserved. Two keys mapping to the same name fail
// with [ErrKeyCollision], and fn output is validated like any other
// key.
func (b *Batch) MapKeys(fn func(key string) string) (*Batch, error) {
	out := Empty()
	for _, k := range b.keys {
		v := b.values[k]
		if nb, ok := v.(*Batch); ok {
			nv, err := nb.MapKeys(fn)
			if err != nil {
				return nil, err
			}
			v = nv
		}
		nk := fn(k)
		if _, exists := out.values[nk]; exists {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrKeyCollision, nk)
		}
		if err := out.setLeaf(nk, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AddPrefix prepends prefix to every top-level key.
func (b *Batch) AddPrefix(prefix string) (*Batch, error) {
	out := Empty()
	for _, k := range b.keys {
		if err := out.setLeaf(prefix+k, b.values[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AddSuffix appends suffix to every top-level key.
func (b *Batch) AddSuffix(suffix string) (*Batch, error) {
	out := Empty()
	for _, k := range b.keys {
		if err := out.setLeaf(k+suffix, b.values[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Remap projects the batch through a mapping Batch of old names to new
// names: the result holds one entry per mapping entry, in the mapping's
// order, renamed accordingly. An old name missing from the receiver
// yields a nil payload rather than an error, so a remap can declare the
// full target layout up front. Unmapped receiver keys are dropped.
//
//	renamed, err := b.Remap(batch.New(batch.KV("input", "x")))
func (b *Batch) Remap(m *Batch) (*Batch, error) {
	out := Empty()
	if m == nil {
		return out, nil
	}
	for _, old := range m.keys {
		nk, ok := m.values[old].(string)
		if !ok {
			return nil, fmt.Errorf("%w: remap target for %q is %T", ErrNotString, old, m.values[old])
		}
		if _, exists := out.values[nk]; exists {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrKeyCollision, nk)
		}
		if err := out.setLeaf(nk, b.values[old]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Transpose swaps keys and payloads: Batch(a: "x") becomes
// Batch(x: "a"). Every payload must be a string that is itself a valid
// key, and duplicate payloads collide.
func (b *Batch) Transpose() (*Batch, error) {
	out := Empty()
	for _, k := range b.keys {
		s, ok := b.values[k].(string)
		if !ok {
			return nil, fmt.Errorf("%w: payload for %q is %T", ErrNotString, k, b.values[k])
		}
		if _, exists := out.values[s]; exists {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrKeyCollision, s)
		}
		if err := out.setLeaf(s, k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Flatten lifts every leaf payload to the top level under its dotted
// path, the same paths LeafKeys reports. The optional sep joins path
// segments; it defaults to ".".
func (b *Batch) Flatten(sep ...string) *Batch {
	s := keySep
	if len(sep) > 0 {
		s = sep[0]
	}
	out := Empty()
	b.flattenInto(out, "", s)
	return out
}

func (b *Batch) flattenInto(out *Batch, prefix, sep string) {
	for _, k := range b.keys {
		full := k
		if prefix != "" {
			full = prefix + sep + k
		}
		if nb, ok := b.values[k].(*Batch); ok {
			nb.flattenInto(out, full, sep)
			continue
		}
		_ = out.setLeaf(full, b.values[k])
	}
}
