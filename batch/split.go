package batch

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/hasbyte1/go-batch/operand"
)

// Size names one piece of a sequential split: either a leaf taking N
// positions along the split axis, or a group whose Sub sizes share a
// nested Batch.
type Size struct {
	Key string
	N   int
	Sub Sizes
}

// Sizes is the ordered size layout [FromTensor] cuts a payload into.
type Sizes []Size

// S builds a leaf Size.
func S(key string, n int) Size {
	return Size{Key: key, N: n}
}

// Group builds a nested Size; its sub-sizes consume consecutive
// positions and land in a nested Batch.
func Group(key string, sub ...Size) Size {
	return Size{Key: key, Sub: Sizes(sub)}
}

// Total returns the number of positions the sizes consume along the
// split axis, groups included.
func (s Sizes) Total() int {
	total := 0
	for _, sz := range s {
		if sz.Sub != nil {
			total += sz.Sub.Total()
			continue
		}
		total += sz.N
	}
	return total
}

// SizesFromYAML parses a size layout from a YAML mapping, preserving
// the document's key order. Integer values are leaf sizes and nested
// mappings are groups:
//
//	observation:
//	  image: 12
//	  state: 3
//	action: 4
func SizesFromYAML(data []byte) (Sizes, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("batch: sizes: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Sizes{}, nil
	}
	return sizesFromNode(doc.Content[0])
}

func sizesFromNode(n *yaml.Node) (Sizes, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("batch: sizes: expected a mapping, got %s", n.Tag)
	}
	out := make(Sizes, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch val.Kind {
		case yaml.MappingNode:
			sub, err := sizesFromNode(val)
			if err != nil {
				return nil, err
			}
			out = append(out, Group(key.Value, sub...))
		case yaml.ScalarNode:
			var count int
			if err := val.Decode(&count); err != nil {
				return nil, fmt.Errorf("batch: sizes: %q: %w", key.Value, err)
			}
			out = append(out, S(key.Value, count))
		default:
			return nil, fmt.Errorf("batch: sizes: %q: unexpected %s value", key.Value, val.Tag)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Split constructors
// ─────────────────────────────────────────────────────────────────────────────

// FromTensor cuts one payload into contiguous, non-overlapping pieces
// along axis dim and stores each piece under its size's key, in order.
// Groups become nested Batches whose sub-sizes continue consuming
// positions, so the sizes tile the axis exactly; any shortfall or
// excess fails with [ErrSizeMismatch] before anything is cut.
//
// The payload either implements [operand.Sliceable] or is a plain Go
// slice, which splits along axis 0 only. Whether pieces share storage
// with the payload is the payload's choice; slices and dim-0 tensor
// narrows do.
func FromTensor(payload any, sizes Sizes, dim int) (*Batch, error) {
	extent, err := extentAlong(payload, dim)
	if err != nil {
		return nil, err
	}
	if total := sizes.Total(); total != extent {
		return nil, fmt.Errorf("%w: sizes cover %d of %d along axis %d", ErrSizeMismatch, total, extent, dim)
	}
	out, _, err := splitAlong(payload, sizes, dim, 0)
	return out, err
}

func splitAlong(payload any, sizes Sizes, dim, offset int) (*Batch, int, error) {
	out := Empty()
	for _, sz := range sizes {
		if _, exists := out.values[sz.Key]; exists {
			return nil, 0, fmt.Errorf("%w: duplicate key %q in sizes", ErrKeyCollision, sz.Key)
		}
		if sz.Sub != nil {
			nb, next, err := splitAlong(payload, sz.Sub, dim, offset)
			if err != nil {
				return nil, 0, err
			}
			offset = next
			if err := out.setLeaf(sz.Key, nb); err != nil {
				return nil, 0, err
			}
			continue
		}
		if sz.N < 0 {
			return nil, 0, fmt.Errorf("%w: negative size %d for %q", ErrSizeMismatch, sz.N, sz.Key)
		}
		piece, err := narrowAlong(payload, dim, offset, sz.N)
		if err != nil {
			return nil, 0, wrapKey(sz.Key, err)
		}
		offset += sz.N
		if err := out.setLeaf(sz.Key, piece); err != nil {
			return nil, 0, err
		}
	}
	return out, offset, nil
}

func extentAlong(payload any, dim int) (int, error) {
	if s, ok := payload.(operand.Sliceable); ok {
		if dim < 0 || dim >= s.Dims() {
			return 0, fmt.Errorf("%w: axis %d of %d-axis payload", ErrInvalidAxis, dim, s.Dims())
		}
		return s.Size(dim), nil
	}
	rv := reflect.ValueOf(payload)
	if rv.Kind() == reflect.Slice {
		if dim != 0 {
			return 0, fmt.Errorf("%w: axis %d on %T, slices split along axis 0 only", ErrInvalidAxis, dim, payload)
		}
		return rv.Len(), nil
	}
	return 0, fmt.Errorf("%w: cannot split %T", operand.ErrUnsupportedOperation, payload)
}

func narrowAlong(payload any, dim, start, length int) (any, error) {
	if s, ok := payload.(operand.Sliceable); ok {
		return s.Narrow(dim, start, length)
	}
	rv := reflect.ValueOf(payload)
	return rv.Slice(start, start+length).Interface(), nil
}

// FromBatches collates row Batches into one Batch of columns: each key
// maps to the []any of its payloads across the inputs, in input order.
// Keys appear in first-seen order, keys missing from some inputs
// collect fewer payloads, and a key whose payloads are all Batches is
// collated recursively. Nil inputs are skipped.
func FromBatches(batches ...*Batch) *Batch {
	keys := make([]string, 0)
	seen := make(map[string]bool)
	for _, bb := range batches {
		if bb == nil {
			continue
		}
		for _, k := range bb.keys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	out := Empty()
	for _, k := range keys {
		vals := make([]any, 0, len(batches))
		nested := make([]*Batch, 0, len(batches))
		for _, bb := range batches {
			if bb == nil {
				continue
			}
			v, ok := bb.values[k]
			if !ok {
				continue
			}
			vals = append(vals, v)
			if nb, ok := v.(*Batch); ok {
				nested = append(nested, nb)
			}
		}
		if len(nested) == len(vals) && len(vals) > 0 {
			_ = out.setLeaf(k, FromBatches(nested...))
			continue
		}
		_ = out.setLeaf(k, vals)
	}
	return out
}

// Rows decomposes the batch into per-position row Batches: row i holds
// every payload indexed with i. The row count is the smallest payload
// length, so ragged payloads truncate to what every key can serve. A
// payload with no length fails the whole call.
func (b *Batch) Rows() ([]*Batch, error) {
	n, err := b.minLen()
	if err != nil {
		return nil, err
	}
	rows := make([]*Batch, 0, n)
	for i := 0; i < n; i++ {
		row, err := b.AtIndex(i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// minLen is the length of the shortest payload, descending into nested
// Batches. Empty nested Batches impose no bound. Returns 0 for an
// empty batch.
func (b *Batch) minLen() (int, error) {
	n := -1
	for _, k := range b.keys {
		v := b.values[k]
		var m int
		var err error
		if nb, ok := v.(*Batch); ok {
			m, err = nb.minLen()
			if err == nil && nb.IsEmpty() {
				continue
			}
		} else {
			m, err = operand.Length(v)
		}
		if err != nil {
			return 0, wrapKey(k, err)
		}
		if n == -1 || m < n {
			n = m
		}
	}
	if n == -1 {
		return 0, nil
	}
	return n, nil
}
