package tensor

import (
	"fmt"
	"math"
	"slices"

	"github.com/hasbyte1/go-batch/operand"
)

// Invoke implements [operand.Invoker], wiring tensors into batch
// operator forwarding. Arithmetic is element-wise against another
// Tensor of the same shape or against a numeric scalar, and follows
// IEEE-754: dividing by zero yields Inf rather than an error. eq
// produces a 0/1 mask tensor.
func (t *Tensor) Invoke(name string, args ...any) (any, error) {
	switch name {
	case operand.OpAdd, operand.OpRAdd:
		return t.elementwise(name, args, func(a, b float64) float64 { return a + b }, false)
	case operand.OpSub:
		return t.elementwise(name, args, func(a, b float64) float64 { return a - b }, false)
	case operand.OpRSub:
		return t.elementwise(name, args, func(a, b float64) float64 { return a - b }, true)
	case operand.OpMul, operand.OpRMul:
		return t.elementwise(name, args, func(a, b float64) float64 { return a * b }, false)
	case operand.OpDiv:
		return t.elementwise(name, args, func(a, b float64) float64 { return a / b }, false)
	case operand.OpFloorDiv:
		return t.elementwise(name, args, func(a, b float64) float64 { return math.Floor(a / b) }, false)
	case operand.OpMod:
		return t.elementwise(name, args, floorMod, false)
	case operand.OpPow:
		return t.elementwise(name, args, math.Pow, false)
	case operand.OpEq:
		return t.elementwise(name, args, func(a, b float64) float64 {
			if a == b {
				return 1
			}
			return 0
		}, false)
	case operand.OpNeg:
		return t.unary(name, args, func(v float64) float64 { return -v })
	case operand.OpAbs:
		return t.unary(name, args, math.Abs)
	case operand.OpPos:
		return t.unary(name, args, func(v float64) float64 { return v })
	case operand.OpGetItem:
		index, err := exactlyOne(name, args)
		if err != nil {
			return nil, err
		}
		return t.getItem(index)
	case operand.OpLen:
		if len(t.shape) == 0 {
			return nil, fmt.Errorf("%w: len of rank-0 tensor", ErrBadAxis)
		}
		return t.shape[0], nil
	case operand.OpClone:
		return t.Clone(), nil
	case "sum":
		return t.sum(), nil
	case "mean":
		if len(t.data) == 0 {
			return nil, fmt.Errorf("%w: mean", ErrEmptyTensor)
		}
		return t.sum() / float64(len(t.data)), nil
	case "min":
		return t.extremum(name, math.Min)
	case "max":
		return t.extremum(name, math.Max)
	case "numel":
		return len(t.data), nil
	case "reshape":
		shape, err := shapeFromArgs(args)
		if err != nil {
			return nil, err
		}
		return t.Reshape(shape...)
	}
	return nil, fmt.Errorf("%w: %q on tensor", operand.ErrUnsupportedOperation, name)
}

func (t *Tensor) elementwise(name string, args []any, f func(a, b float64) float64, reversed bool) (any, error) {
	other, err := exactlyOne(name, args)
	if err != nil {
		return nil, err
	}
	if o, ok := other.(*Tensor); ok {
		if !slices.Equal(t.shape, o.shape) {
			return nil, fmt.Errorf("%w: %q on %v and %v", ErrShapeMismatch, name, t.shape, o.shape)
		}
		out := make([]float64, len(t.data))
		for i := range t.data {
			a, b := t.data[i], o.data[i]
			if reversed {
				a, b = b, a
			}
			out[i] = f(a, b)
		}
		return &Tensor{shape: t.Shape(), data: out}, nil
	}
	s, ok := toFloat(other)
	if !ok {
		return nil, fmt.Errorf("%w: %q on tensor and %T", operand.ErrUnsupportedOperation, name, other)
	}
	out := make([]float64, len(t.data))
	for i, v := range t.data {
		a, b := v, s
		if reversed {
			a, b = b, a
		}
		out[i] = f(a, b)
	}
	return &Tensor{shape: t.Shape(), data: out}, nil
}

func (t *Tensor) unary(name string, args []any, f func(v float64) float64) (any, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("%w: %q takes no arguments", operand.ErrBadOperand, name)
	}
	out := make([]float64, len(t.data))
	for i, v := range t.data {
		out[i] = f(v)
	}
	return &Tensor{shape: t.Shape(), data: out}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Indexing
// ─────────────────────────────────────────────────────────────────────────────

// getItem resolves one index expression. An int selects along axis 0
// and drops that axis, collapsing a rank-1 tensor to a plain float64.
// A Range narrows axis 0 and keeps the rank. A []int gathers rows.
// A []any applies one sub-index per axis, with All keeping an axis
// whole.
func (t *Tensor) getItem(index any) (any, error) {
	switch ix := index.(type) {
	case int:
		if len(t.shape) == 0 {
			return nil, fmt.Errorf("%w: index into rank-0 tensor", ErrBadIndex)
		}
		i, err := operand.NormIndex(ix, t.shape[0])
		if err != nil {
			return nil, err
		}
		nt, err := t.narrow(0, i, 1)
		if err != nil {
			return nil, err
		}
		return scalarize(squeezeAxis(nt, 0)), nil
	case operand.Range:
		if len(t.shape) == 0 {
			return nil, fmt.Errorf("%w: range into rank-0 tensor", ErrBadIndex)
		}
		start, end := ix.Clamp(t.shape[0])
		return t.narrow(0, start, end-start)
	case []int:
		return t.gather(ix)
	case operand.All:
		return t, nil
	case []any:
		return t.multiAxis(ix)
	}
	return nil, fmt.Errorf("%w: %T on tensor", operand.ErrIndexUnsupported, index)
}

func (t *Tensor) gather(ix []int) (*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("%w: gather from rank-0 tensor", ErrBadIndex)
	}
	inner := 1
	for _, d := range t.shape[1:] {
		inner *= d
	}
	out := make([]float64, 0, len(ix)*inner)
	for _, raw := range ix {
		i, err := operand.NormIndex(raw, t.shape[0])
		if err != nil {
			return nil, err
		}
		out = append(out, t.data[i*inner:(i+1)*inner]...)
	}
	shape := t.Shape()
	shape[0] = len(ix)
	return &Tensor{shape: shape, data: out}, nil
}

func (t *Tensor) multiAxis(ix []any) (any, error) {
	if len(ix) > len(t.shape) {
		return nil, fmt.Errorf("%w: %d sub-indexes for rank %d", ErrBadIndex, len(ix), len(t.shape))
	}
	cur := t
	axis := 0
	for _, e := range ix {
		switch v := e.(type) {
		case int:
			i, err := operand.NormIndex(v, cur.shape[axis])
			if err != nil {
				return nil, err
			}
			nt, err := cur.narrow(axis, i, 1)
			if err != nil {
				return nil, err
			}
			cur = squeezeAxis(nt, axis)
		case operand.Range:
			start, end := v.Clamp(cur.shape[axis])
			nt, err := cur.narrow(axis, start, end-start)
			if err != nil {
				return nil, err
			}
			cur = nt
			axis++
		case operand.All:
			axis++
		default:
			return nil, fmt.Errorf("%w: %T in multi-axis index", operand.ErrIndexUnsupported, e)
		}
	}
	return scalarize(cur), nil
}

// squeezeAxis drops a size-1 axis. The data stays contiguous, so the
// storage is reused as-is.
func squeezeAxis(t *Tensor, axis int) *Tensor {
	shape := make([]int, 0, len(t.shape)-1)
	shape = append(shape, t.shape[:axis]...)
	shape = append(shape, t.shape[axis+1:]...)
	return &Tensor{shape: shape, data: t.data}
}

// scalarize collapses a rank-0 tensor to its single float64, so that
// full indexing yields a plain number payload.
func scalarize(t *Tensor) any {
	if len(t.shape) == 0 {
		return t.data[0]
	}
	return t
}

// ─────────────────────────────────────────────────────────────────────────────
// Reductions and helpers
// ─────────────────────────────────────────────────────────────────────────────

func (t *Tensor) sum() float64 {
	total := 0.0
	for _, v := range t.data {
		total += v
	}
	return total
}

func (t *Tensor) extremum(name string, pick func(a, b float64) float64) (any, error) {
	if len(t.data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTensor, name)
	}
	out := t.data[0]
	for _, v := range t.data[1:] {
		out = pick(out, v)
	}
	return out, nil
}

func floorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func exactlyOne(name string, args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %q wants one argument, got %d", operand.ErrBadOperand, name, len(args))
	}
	return args[0], nil
}

func shapeFromArgs(args []any) ([]int, error) {
	if len(args) == 1 {
		if s, ok := args[0].([]int); ok {
			return s, nil
		}
	}
	shape := make([]int, len(args))
	for i, a := range args {
		n, ok := toInt(a)
		if !ok {
			return nil, fmt.Errorf("%w: reshape dimension %T", operand.ErrBadOperand, a)
		}
		shape[i] = n
	}
	return shape, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	}
	return 0, false
}
