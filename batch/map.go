package batch

// Map applies fn to every payload and collects the results under the
// same keys. Nested Batches are mapped recursively; fn never sees
// them, only leaf payloads. The receiver is left unchanged.
func (b *Batch) Map(fn func(value any) any) *Batch {
	out := Empty()
	for _, k := range b.keys {
		v := b.values[k]
		if nb, ok := v.(*Batch); ok {
			v = nb.Map(fn)
		} else {
			v = fn(v)
		}
		// Keys are reused as-is, so this cannot fail.
		_ = out.setLeaf(k, v)
	}
	return out
}

// TryMap is Map for transforms that can fail. The first error aborts
// and is returned with its key; the receiver is left unchanged.
func (b *Batch) TryMap(fn func(value any) (any, error)) (*Batch, error) {
	out := Empty()
	for _, k := range b.keys {
		v := b.values[k]
		var err error
		if nb, ok := v.(*Batch); ok {
			v, err = nb.TryMap(fn)
		} else {
			v, err = fn(v)
		}
		if err != nil {
			return nil, wrapKey(k, err)
		}
		_ = out.setLeaf(k, v)
	}
	return out, nil
}

// Filter keeps the leaf payloads for which pred is true. Nested
// Batches are filtered recursively and kept, even when everything
// inside them is dropped.
func (b *Batch) Filter(pred func(value any) bool) *Batch {
	out := Empty()
	for _, k := range b.keys {
		v := b.values[k]
		if nb, ok := v.(*Batch); ok {
			_ = out.setLeaf(k, nb.Filter(pred))
			continue
		}
		if pred(v) {
			_ = out.setLeaf(k, v)
		}
	}
	return out
}
