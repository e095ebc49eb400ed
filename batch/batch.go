package batch

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/hasbyte1/go-batch/operand"
)

// keySep separates the segments of a dotted path such as "input.image".
const keySep = "."

// reservedPrefix marks names that can never be keys or member names.
const reservedPrefix = "_"

// Batch is an ordered, string-keyed collection of heterogeneous
// payloads that behaves like a value itself: operators, indexing and
// member functions applied to a Batch are forwarded to every payload
// and the results are collected under the same keys.
//
// A Batch does not interpret its payloads. Anything can be stored:
// numbers, strings, slices, tensors, or other Batches, which makes the
// structure nest. Key order is the insertion order and matters only for
// display and iteration, never for correctness.
type Batch struct {
	keys      []string
	values    map[string]any
	defaultFn func() any
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// New builds a Batch from entries, in order. Map payloads of type
// map[string]any are converted to nested Batches, and dotted keys
// create the intermediate Batches they name.
//
// New panics when an entry is invalid, the way regexp.MustCompile does:
// literal entry lists are part of the program text, so a bad key is a
// programming error. Use [FromPairs] for data-driven input.
func New(entries ...Entry) *Batch {
	b, err := FromPairs(entries...)
	if err != nil {
		panic("batch: New: " + err.Error())
	}
	return b
}

// Empty returns a Batch with no entries.
func Empty() *Batch {
	return &Batch{values: make(map[string]any)}
}

// FromPairs builds a Batch from entries, in order, returning an error
// instead of panicking on invalid keys. A key that appears twice keeps
// its first position and the last value.
func FromPairs(entries ...Entry) (*Batch, error) {
	b := Empty()
	for _, e := range entries {
		v, err := batchify(e.Value)
		if err != nil {
			return nil, err
		}
		if err := b.Set(e.Key, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// FromMap builds a Batch from a plain map. Keys are inserted in sorted
// order, since Go maps have none to preserve, and nested map[string]any
// values become nested Batches.
func FromMap(m map[string]any) (*Batch, error) {
	b := Empty()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v, err := batchify(m[k])
		if err != nil {
			return nil, err
		}
		if err := b.Set(k, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// batchify converts map payloads to nested Batches. Everything else is
// stored as given.
func batchify(v any) (any, error) {
	if m, ok := v.(map[string]any); ok {
		return FromMap(m)
	}
	return v, nil
}

// WithDefault installs a constructor for missing keys: a lookup that
// finds no entry calls fn, stores the result under the requested key,
// and returns it. It returns the receiver for chaining.
//
//	b := batch.Empty().WithDefault(func() any { return []int{} })
func (b *Batch) WithDefault(fn func() any) *Batch {
	b.defaultFn = fn
	return b
}

// ─────────────────────────────────────────────────────────────────────────────
// Entry access
// ─────────────────────────────────────────────────────────────────────────────

// Get returns the payload stored under key. An exact key match wins;
// otherwise a key containing "." descends into nested Batches segment
// by segment. When a default constructor is installed, a missing key is
// synthesized instead of failing.
func (b *Batch) Get(key string) (any, error) {
	return b.lookup(key, true)
}

// Set stores value under key. A dotted key descends into nested
// Batches, creating empty intermediate Batches as needed; every
// segment must be a valid key.
//
// Unlike New and FromMap, Set stores map payloads as given.
func (b *Batch) Set(key string, value any) error {
	root, rest, found := strings.Cut(key, keySep)
	if !found {
		return b.setLeaf(key, value)
	}
	if err := validKey(root); err != nil {
		return err
	}
	child, ok := b.values[root]
	if !ok {
		if b.defaultFn != nil {
			// A default constructor owns missing keys, including
			// intermediate ones.
			var err error
			child, err = b.lookup(root, true)
			if err != nil {
				return err
			}
		} else {
			nb := Empty()
			if err := nb.Set(rest, value); err != nil {
				return err
			}
			return b.setLeaf(root, nb)
		}
	}
	nb, ok := child.(*Batch)
	if !ok {
		return fmt.Errorf("%w: %q is %T", ErrNotIndexable, root, child)
	}
	return nb.Set(rest, value)
}

// Delete removes the entry stored under key. Dotted paths are not
// accepted; delete from the nested Batch instead.
func (b *Batch) Delete(key string) error {
	if _, ok := b.values[key]; !ok {
		return fmt.Errorf("%w: %q (have %v)", ErrKeyNotFound, key, b.keys)
	}
	delete(b.values, key)
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == key })
	return nil
}

// Pop removes the entry stored under key and returns its payload.
func (b *Batch) Pop(key string) (any, error) {
	v, ok := b.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrKeyNotFound, key, b.keys)
	}
	delete(b.values, key)
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == key })
	return v, nil
}

// Has reports whether key resolves, including dotted paths. Unlike
// Get, Has never synthesizes an entry through a default constructor.
func (b *Batch) Has(key string) bool {
	_, err := b.lookup(key, false)
	return err == nil
}

// Update merges the entries of the given Batches into b, last writer
// winning. Existing keys keep their position; new keys append in
// order. It returns the receiver.
func (b *Batch) Update(others ...*Batch) *Batch {
	for _, o := range others {
		if o == nil {
			continue
		}
		for _, k := range o.keys {
			if _, exists := b.values[k]; !exists {
				b.keys = append(b.keys, k)
			}
			b.values[k] = o.values[k]
		}
	}
	return b
}

// lookup resolves key with the exact-match-first rule. synthesize
// gates the default constructor so probes like Has stay side-effect
// free.
func (b *Batch) lookup(key string, synthesize bool) (any, error) {
	if v, ok := b.values[key]; ok {
		return v, nil
	}
	if root, rest, found := strings.Cut(key, keySep); found {
		child, err := b.lookup(root, synthesize)
		if err != nil {
			return nil, err
		}
		nb, ok := child.(*Batch)
		if !ok {
			return nil, fmt.Errorf("%w: %q is %T", ErrNotIndexable, root, child)
		}
		return nb.lookup(rest, synthesize)
	}
	if synthesize && b.defaultFn != nil {
		v := b.defaultFn()
		if err := b.setLeaf(key, v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q (have %v)", ErrKeyNotFound, key, b.keys)
}

// setLeaf inserts one validated single-segment entry, last writer
// winning with the first position kept.
func (b *Batch) setLeaf(key string, value any) error {
	if err := validKey(key); err != nil {
		return err
	}
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	return nil
}

func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrReservedKey)
	}
	if strings.HasPrefix(key, reservedPrefix) {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Inspection
// ─────────────────────────────────────────────────────────────────────────────

// Len returns the number of entries.
func (b *Batch) Len() int {
	return len(b.keys)
}

// IsEmpty reports whether the batch has no entries.
func (b *Batch) IsEmpty() bool {
	return len(b.keys) == 0
}

// Keys returns the keys in insertion order. The slice is a copy.
func (b *Batch) Keys() []string {
	return slices.Clone(b.keys)
}

// Values returns the payloads in key order.
func (b *Batch) Values() []any {
	out := make([]any, len(b.keys))
	for i, k := range b.keys {
		out[i] = b.values[k]
	}
	return out
}

// Entries returns the key/payload pairs in key order.
func (b *Batch) Entries() []Entry {
	out := make([]Entry, len(b.keys))
	for i, k := range b.keys {
		out[i] = Entry{Key: k, Value: b.values[k]}
	}
	return out
}

// Each calls fn for every entry in key order and returns the receiver.
func (b *Batch) Each(fn func(key string, value any)) *Batch {
	for _, k := range b.keys {
		fn(k, b.values[k])
	}
	return b
}

// LeafKeys returns the dotted paths of all non-Batch payloads,
// descending into nested Batches depth first. The optional sep joins
// path segments; it defaults to ".".
//
//	batch.New(batch.KV("a", 1), batch.KV("n", batch.New(batch.KV("x", 2)))).LeafKeys()
//	// → ["a", "n.x"]
func (b *Batch) LeafKeys(sep ...string) []string {
	s := keySep
	if len(sep) > 0 {
		s = sep[0]
	}
	out := make([]string, 0, len(b.keys))
	for _, k := range b.keys {
		if nb, ok := b.values[k].(*Batch); ok {
			for _, sub := range nb.LeafKeys(s) {
				out = append(out, k+s+sub)
			}
			continue
		}
		out = append(out, k)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Copying and comparison
// ─────────────────────────────────────────────────────────────────────────────

// Clone returns a copy of the batch. Nested Batches are cloned
// recursively and payloads are copied when they support it (see
// [operand.CloneValue]); payloads that cannot be copied are shared.
func (b *Batch) Clone() *Batch {
	out := &Batch{
		keys:      slices.Clone(b.keys),
		values:    make(map[string]any, len(b.keys)),
		defaultFn: b.defaultFn,
	}
	for k, v := range b.values {
		if nb, ok := v.(*Batch); ok {
			out.values[k] = nb.Clone()
			continue
		}
		out.values[k] = operand.CloneValue(v)
	}
	return out
}

// Equal reports whether both batches hold deeply equal payloads under
// the same key set. Key order is a display concern and is ignored.
func (b *Batch) Equal(other *Batch) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.keys) != len(other.keys) {
		return false
	}
	for k, v := range b.values {
		ov, ok := other.values[k]
		if !ok {
			return false
		}
		if nb, nested := v.(*Batch); nested {
			onb, ok := ov.(*Batch)
			if !ok || !nb.Equal(onb) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String renders the batch compactly in key order, nesting included:
// Batch(input: 1, target: Batch(y: 2)).
func (b *Batch) String() string {
	var sb strings.Builder
	sb.WriteString("Batch(")
	for i, k := range b.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", k, b.values[k])
	}
	sb.WriteString(")")
	return sb.String()
}

// Dump writes the entries to stdout in spew's deep format and returns
// the receiver, so it can be dropped into a call chain while
// debugging.
func (b *Batch) Dump() *Batch {
	spew.Dump(b.Entries())
	return b
}
