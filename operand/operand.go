package operand

import (
	"errors"
	"fmt"
	"reflect"
)

// Operation names understood by the dispatch layer. Payloads and
// registered handlers are addressed by these names; anything outside
// this list is treated as a member-function name and forwarded verbatim.
const (
	// Unary.
	OpAbs    = "abs"
	OpIndex  = "index"
	OpInvert = "invert"
	OpNeg    = "neg"
	OpNot    = "not"
	OpPos    = "pos"

	// Binary.
	OpAdd      = "add"
	OpAnd      = "and"
	OpConcat   = "concat"
	OpDiv      = "div"
	OpEq       = "eq"
	OpFloorDiv = "floordiv"
	OpLShift   = "lshift"
	OpMod      = "mod"
	OpMul      = "mul"
	OpOr       = "or"
	OpPow      = "pow"
	OpRShift   = "rshift"
	OpSub      = "sub"
	OpXor      = "xor"

	// Structural.
	OpClone   = "clone"
	OpGetItem = "getitem"
	OpLen     = "len"
)

// Reflected binary operations. When the left operand of add, and, mul,
// or, sub or xor cannot handle the operation, the right operand is given
// a chance through the corresponding reflected name with the operands
// swapped.
const (
	OpRAdd = "radd"
	OpRAnd = "rand"
	OpRMul = "rmul"
	OpROr  = "ror"
	OpRSub = "rsub"
	OpRXor = "rxor"
)

var reverseOps = map[string]string{
	OpAdd: OpRAdd,
	OpAnd: OpRAnd,
	OpMul: OpRMul,
	OpOr:  OpROr,
	OpSub: OpRSub,
	OpXor: OpRXor,
}

var forwardOps = map[string]string{
	OpRAdd: OpAdd,
	OpRAnd: OpAnd,
	OpRMul: OpMul,
	OpROr:  OpOr,
	OpRSub: OpSub,
	OpRXor: OpXor,
}

// ReverseOf returns the reflected name for a forward binary operation,
// e.g. "radd" for "add", and whether the operation has one.
func ReverseOf(op string) (string, bool) {
	r, ok := reverseOps[op]
	return r, ok
}

// ForwardOf returns the forward name for a reflected operation,
// e.g. "add" for "radd", and whether op is a reflected name.
func ForwardOf(op string) (string, bool) {
	f, ok := forwardOps[op]
	return f, ok
}

// ─────────────────────────────────────────────────────────────────────────────
// Payload capability interfaces
// ─────────────────────────────────────────────────────────────────────────────

// Invoker is implemented by payloads that handle operations themselves.
// It takes precedence over registered handlers and built-ins.
//
// Invoke receives one of the Op* names above, or an arbitrary member
// name forwarded from a container. Returning an error that wraps
// [ErrUnsupportedOperation] signals "not my operation" and lets dispatch
// fall through to the reflected form for binary operations, mirroring
// how dynamic languages bounce unhandled operators to the other side.
type Invoker interface {
	Invoke(name string, args ...any) (any, error)
}

// Sliceable is implemented by payloads that can be cut into contiguous
// pieces along an axis, such as tensors. Package batch uses it to split
// one payload into per-key sub-payloads.
type Sliceable interface {
	// Dims returns the number of axes.
	Dims() int
	// Size returns the extent along dim, which must be in [0, Dims()).
	Size(dim int) int
	// Narrow returns the sub-payload covering [start, start+length)
	// along dim. Whether the result shares storage with the receiver
	// is up to the implementation.
	Narrow(dim, start, length int) (any, error)
}

// Cloner is implemented by payloads that know how to copy themselves.
// CloneValue prefers it over the "clone" protocol operation.
type Cloner interface {
	Clone() any
}

// ─────────────────────────────────────────────────────────────────────────────
// Dispatch
// ─────────────────────────────────────────────────────────────────────────────

// dispatch resolves one operation against one receiver:
// Invoker first, then the handler registry, then built-ins.
func dispatch(recv any, op string, args ...any) (any, error) {
	if inv, ok := recv.(Invoker); ok {
		return inv.Invoke(op, args...)
	}
	if h, ok := lookup(recv, op); ok {
		return h(recv, args...)
	}
	if res, handled, err := builtin(recv, op, args...); handled {
		return res, err
	}
	return nil, fmt.Errorf("%w: %q on %T", ErrUnsupportedOperation, op, recv)
}

// Unary applies a unary operation (abs, neg, pos, invert, not, index)
// to v and returns the result.
func Unary(op string, v any) (any, error) {
	return dispatch(v, op)
}

// Binary applies a binary operation to left and right and returns the
// result. If the left operand does not support the operation and the
// operation has a reflected form, the right operand is tried with the
// operands swapped; the left operand's failure is reported when both
// sides decline.
func Binary(op string, left, right any) (any, error) {
	res, err := dispatch(left, op, right)
	if err == nil || !errors.Is(err, ErrUnsupportedOperation) {
		return res, err
	}
	rev, ok := ReverseOf(op)
	if !ok {
		return nil, err
	}
	rres, rerr := dispatch(right, rev, left)
	if rerr == nil || !errors.Is(rerr, ErrUnsupportedOperation) {
		return rres, rerr
	}
	return nil, err
}

// Index applies the "getitem" operation to v with the given index,
// which may be an int (negative counts from the end), a [Range], an
// []int gather list, or any form the payload itself understands.
// Payloads that do not support indexing, or not that index form, yield
// an error wrapping [ErrIndexUnsupported].
func Index(v, index any) (any, error) {
	res, err := dispatch(v, OpGetItem, index)
	if err != nil && errors.Is(err, ErrUnsupportedOperation) {
		return nil, fmt.Errorf("%w: %T cannot be indexed", ErrIndexUnsupported, v)
	}
	return res, err
}

// Length applies the "len" operation to v and coerces the result to an
// int.
func Length(v any) (int, error) {
	res, err := dispatch(v, OpLen)
	if err != nil {
		return 0, err
	}
	switch n := res.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	return 0, fmt.Errorf("%w: %q returned %T, want int", ErrBadOperand, OpLen, res)
}

// Invoke forwards an arbitrary named operation to recv, resolving it
// the same way operators are resolved: the payload's own Invoke method
// first, then registered handlers, then built-in member functions.
func Invoke(recv any, name string, args ...any) (any, error) {
	return dispatch(recv, name, args...)
}

// CloneValue returns the best available copy of v: via [Cloner] when
// implemented, otherwise via the "clone" operation, otherwise v itself.
// Payloads that cannot be copied are shared, not duplicated.
func CloneValue(v any) any {
	if c, ok := v.(Cloner); ok {
		return c.Clone()
	}
	if res, err := dispatch(v, OpClone); err == nil {
		return res
	}
	return v
}

// builtin routes an operation to the built-in handler family for the
// receiver's type. The second return reports whether a family claimed
// the receiver at all; errors from a claiming family are final apart
// from the reflected-operation fallback in Binary.
func builtin(recv any, op string, args ...any) (any, bool, error) {
	switch r := recv.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		res, err := numericApply(recv, op, args...)
		return res, true, err
	case bool:
		res, err := boolApply(r, op, args...)
		return res, true, err
	case string:
		res, err := stringApply(r, op, args...)
		return res, true, err
	}
	if rv := reflect.ValueOf(recv); rv.Kind() == reflect.Slice {
		res, err := sliceApply(rv, op, args...)
		return res, true, err
	}
	return nil, false, nil
}
