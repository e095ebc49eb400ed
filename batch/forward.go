package batch

import (
	"fmt"

	"github.com/hasbyte1/go-batch/operand"
)

// Invoke forwards a member function to every payload: the name resolves
// per payload through [operand.Invoke], nested Batches recurse, and the
// returns are collected under the receiver's keys.
//
// Arguments that are themselves *Batch values are key-matched: payload
// k receives arg.values[k], which must exist. Any other argument is
// broadcast to every payload unchanged.
//
//	lengths, err := b.Invoke("len")
//	upper, err := names.Invoke("upper")
//
// Member names share the key alphabet, so an empty or
// underscore-prefixed name fails with [ErrReservedKey], and forwarding
// on an empty batch fails with [ErrEmptyBatch] because there is no
// payload to answer. A payload that does not know the name fails the
// whole call with its own error.
func (b *Batch) Invoke(name string, args ...any) (*Batch, error) {
	if err := validKey(name); err != nil {
		return nil, err
	}
	if b.IsEmpty() {
		return nil, fmt.Errorf("%w: cannot forward %q", ErrEmptyBatch, name)
	}
	out := Empty()
	for _, k := range b.keys {
		shaped, err := shapeArgs(k, args)
		if err != nil {
			return nil, err
		}
		v := b.values[k]
		var r any
		if nb, ok := v.(*Batch); ok {
			r, err = nb.Invoke(name, shaped...)
		} else {
			r, err = operand.Invoke(v, name, shaped...)
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

// shapeArgs replaces every *Batch argument with its payload for key.
func shapeArgs(key string, args []any) ([]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	shaped := make([]any, len(args))
	for i, a := range args {
		ab, ok := a.(*Batch)
		if !ok {
			shaped[i] = a
			continue
		}
		v, ok := ab.values[key]
		if !ok {
			return nil, fmt.Errorf("%w: argument %d is missing %q (have %v)", ErrKeyMismatch, i, key, ab.keys)
		}
		shaped[i] = v
	}
	return shaped, nil
}
