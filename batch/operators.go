package batch

import (
	"fmt"

	"github.com/hasbyte1/go-batch/operand"
)

// Operator forwarding. A Batch behaves like a value: applying an
// operation applies it to every payload and collects the results under
// the same keys. Binary operations are key-matched when the other
// operand is a *Batch and broadcast when it is anything else; the
// receiver's keys drive iteration and set the result order.

// ApplyUnary applies a unary operation name ("abs", "neg", "pos",
// "invert", "not", "index") to every payload.
func (b *Batch) ApplyUnary(op string) (*Batch, error) {
	out := Empty()
	for _, k := range b.keys {
		r, err := applyUnaryValue(op, b.values[k])
		if err != nil {
			return nil, wrapKey(k, err)
		}
		if err := out.setLeaf(k, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Apply applies a binary operation name ("add", "mul", "concat", ...)
// against other and returns a new Batch. When other is a *Batch it
// must hold every key of the receiver, and payloads meet their
// key-mates; otherwise other is broadcast to every payload. Reflected
// names ("radd", ...) run with the operand order flipped.
func (b *Batch) Apply(op string, other any) (*Batch, error) {
	op, reversed := normalizeOp(op)
	return b.applyBinary(op, other, reversed)
}

// ApplyInPlace is Apply with the results written back into the
// receiver's entries. It validates keys and computes every result
// before the first write, so a failing operation leaves the receiver
// untouched. Nested Batches are updated entry by entry rather than
// replaced, keeping aliases valid. Returns the receiver.
func (b *Batch) ApplyInPlace(op string, other any) (*Batch, error) {
	op, reversed := normalizeOp(op)
	vals, err := b.computeBinary(op, other, reversed)
	if err != nil {
		return nil, err
	}
	for i, k := range b.keys {
		commitValue(b, k, vals[i])
	}
	return b, nil
}

func normalizeOp(op string) (string, bool) {
	if fwd, ok := operand.ForwardOf(op); ok {
		return fwd, true
	}
	return op, false
}

func (b *Batch) applyBinary(op string, other any, reversed bool) (*Batch, error) {
	vals, err := b.computeBinary(op, other, reversed)
	if err != nil {
		return nil, err
	}
	out := Empty()
	for i, k := range b.keys {
		if err := out.setLeaf(k, vals[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// computeBinary produces one result per key without touching the
// receiver. In-place application commits afterwards.
func (b *Batch) computeBinary(op string, other any, reversed bool) ([]any, error) {
	ob, otherIsBatch := other.(*Batch)
	vals := make([]any, len(b.keys))
	for i, k := range b.keys {
		w := other
		if otherIsBatch {
			var ok bool
			w, ok = ob.values[k]
			if !ok {
				return nil, fmt.Errorf("%w: right operand is missing %q (have %v)", ErrKeyMismatch, k, ob.keys)
			}
		}
		r, err := applyBinaryValue(op, b.values[k], w, reversed)
		if err != nil {
			return nil, wrapKey(k, err)
		}
		vals[i] = r
	}
	return vals, nil
}

func applyUnaryValue(op string, v any) (any, error) {
	if nb, ok := v.(*Batch); ok {
		return nb.ApplyUnary(op)
	}
	return operand.Unary(op, v)
}

func applyBinaryValue(op string, v, w any, reversed bool) (any, error) {
	nv, vIsBatch := v.(*Batch)
	nw, wIsBatch := w.(*Batch)
	switch {
	case vIsBatch:
		return nv.applyBinary(op, w, reversed)
	case wIsBatch:
		// A plain payload met a nested Batch: let the nested side
		// drive iteration with the operand order flipped once more.
		return nw.applyBinary(op, v, !reversed)
	case reversed:
		return operand.Binary(op, w, v)
	default:
		return operand.Binary(op, v, w)
	}
}

// commitValue writes one computed result back. Nested Batches merge
// entry by entry so that aliases into the old structure observe the
// update.
func commitValue(b *Batch, key string, nv any) {
	old, oldIsBatch := b.values[key].(*Batch)
	nvb, newIsBatch := nv.(*Batch)
	if oldIsBatch && newIsBatch {
		for _, k := range old.keys {
			commitValue(old, k, nvb.values[k])
		}
		return
	}
	b.values[key] = nv
}

// ─────────────────────────────────────────────────────────────────────────────
// Unary operators
// ─────────────────────────────────────────────────────────────────────────────

// Abs applies abs to every payload.
func (b *Batch) Abs() (*Batch, error) { return b.ApplyUnary(operand.OpAbs) }

// Neg negates every payload.
func (b *Batch) Neg() (*Batch, error) { return b.ApplyUnary(operand.OpNeg) }

// Pos applies unary plus to every payload.
func (b *Batch) Pos() (*Batch, error) { return b.ApplyUnary(operand.OpPos) }

// Invert applies bitwise complement to every payload.
func (b *Batch) Invert() (*Batch, error) { return b.ApplyUnary(operand.OpInvert) }

// Not applies logical negation to every payload, yielding bools.
func (b *Batch) Not() (*Batch, error) { return b.ApplyUnary(operand.OpNot) }

// ─────────────────────────────────────────────────────────────────────────────
// Binary operators
// ─────────────────────────────────────────────────────────────────────────────

// Add applies add, key-matched against a *Batch and broadcast
// otherwise.
func (b *Batch) Add(other any) (*Batch, error) { return b.Apply(operand.OpAdd, other) }

// Sub applies subtraction.
func (b *Batch) Sub(other any) (*Batch, error) { return b.Apply(operand.OpSub, other) }

// Mul applies multiplication.
func (b *Batch) Mul(other any) (*Batch, error) { return b.Apply(operand.OpMul, other) }

// Div applies true division; built-in numerics always yield floats.
func (b *Batch) Div(other any) (*Batch, error) { return b.Apply(operand.OpDiv, other) }

// FloorDiv applies division flooring toward negative infinity.
func (b *Batch) FloorDiv(other any) (*Batch, error) { return b.Apply(operand.OpFloorDiv, other) }

// Mod applies the floored modulo; the result takes the divisor's sign.
func (b *Batch) Mod(other any) (*Batch, error) { return b.Apply(operand.OpMod, other) }

// Pow raises every payload to a power.
func (b *Batch) Pow(other any) (*Batch, error) { return b.Apply(operand.OpPow, other) }

// LShift shifts every payload left.
func (b *Batch) LShift(other any) (*Batch, error) { return b.Apply(operand.OpLShift, other) }

// RShift shifts every payload right.
func (b *Batch) RShift(other any) (*Batch, error) { return b.Apply(operand.OpRShift, other) }

// And applies bitwise and on integers, logical and on bools.
func (b *Batch) And(other any) (*Batch, error) { return b.Apply(operand.OpAnd, other) }

// Or applies bitwise or on integers, logical or on bools.
func (b *Batch) Or(other any) (*Batch, error) { return b.Apply(operand.OpOr, other) }

// Xor applies bitwise xor on integers, logical xor on bools.
func (b *Batch) Xor(other any) (*Batch, error) { return b.Apply(operand.OpXor, other) }

// Concat concatenates sequence payloads.
func (b *Batch) Concat(other any) (*Batch, error) { return b.Apply(operand.OpConcat, other) }

// Eq compares every payload for equality, yielding whatever the
// payloads produce: bools for the built-ins, masks for tensor-like
// payloads.
func (b *Batch) Eq(other any) (*Batch, error) { return b.Apply(operand.OpEq, other) }

// ─────────────────────────────────────────────────────────────────────────────
// Reflected operators
// ─────────────────────────────────────────────────────────────────────────────

// RAdd applies add with the operand order flipped: other + payload.
func (b *Batch) RAdd(other any) (*Batch, error) { return b.Apply(operand.OpRAdd, other) }

// RSub applies subtraction with the operand order flipped.
func (b *Batch) RSub(other any) (*Batch, error) { return b.Apply(operand.OpRSub, other) }

// RMul applies multiplication with the operand order flipped.
func (b *Batch) RMul(other any) (*Batch, error) { return b.Apply(operand.OpRMul, other) }

// RAnd applies and with the operand order flipped.
func (b *Batch) RAnd(other any) (*Batch, error) { return b.Apply(operand.OpRAnd, other) }

// ROr applies or with the operand order flipped.
func (b *Batch) ROr(other any) (*Batch, error) { return b.Apply(operand.OpROr, other) }

// RXor applies xor with the operand order flipped.
func (b *Batch) RXor(other any) (*Batch, error) { return b.Apply(operand.OpRXor, other) }

// ─────────────────────────────────────────────────────────────────────────────
// In-place operators
// ─────────────────────────────────────────────────────────────────────────────

// IAdd adds in place and returns the receiver.
func (b *Batch) IAdd(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpAdd, other) }

// ISub subtracts in place and returns the receiver.
func (b *Batch) ISub(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpSub, other) }

// IMul multiplies in place and returns the receiver.
func (b *Batch) IMul(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpMul, other) }

// IDiv divides in place and returns the receiver.
func (b *Batch) IDiv(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpDiv, other) }

// IFloorDiv floor-divides in place and returns the receiver.
func (b *Batch) IFloorDiv(other any) (*Batch, error) {
	return b.ApplyInPlace(operand.OpFloorDiv, other)
}

// IMod applies the floored modulo in place and returns the receiver.
func (b *Batch) IMod(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpMod, other) }

// IPow raises in place and returns the receiver.
func (b *Batch) IPow(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpPow, other) }

// ILShift shifts left in place and returns the receiver.
func (b *Batch) ILShift(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpLShift, other) }

// IRShift shifts right in place and returns the receiver.
func (b *Batch) IRShift(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpRShift, other) }

// IAnd applies and in place and returns the receiver.
func (b *Batch) IAnd(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpAnd, other) }

// IOr applies or in place and returns the receiver.
func (b *Batch) IOr(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpOr, other) }

// IXor applies xor in place and returns the receiver.
func (b *Batch) IXor(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpXor, other) }

// IConcat concatenates in place and returns the receiver.
func (b *Batch) IConcat(other any) (*Batch, error) { return b.ApplyInPlace(operand.OpConcat, other) }
