package operand

import (
	"fmt"
	"math"
)

// Built-in handlers for Go's numeric kinds and bool.
//
// Mixed-kind arithmetic follows the rules of a dynamic language rather
// than Go's: operands promote to float64 when either side is a float,
// div always yields a float, floordiv and mod floor toward negative
// infinity, and integer results are normalized to int. Division by zero
// is an error for floats too, not an Inf.

func numericApply(recv any, op string, args ...any) (any, error) {
	if fwd, ok := ForwardOf(op); ok {
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		return numericBinary(fwd, other, recv)
	}
	switch op {
	case OpAbs, OpNeg, OpPos, OpInvert, OpNot, OpIndex, OpClone:
		if err := none(op, args); err != nil {
			return nil, err
		}
		return numericUnary(recv, op)
	case OpAdd, OpSub, OpMul, OpDiv, OpFloorDiv, OpMod, OpPow,
		OpAnd, OpOr, OpXor, OpLShift, OpRShift, OpEq:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		return numericBinary(op, recv, other)
	}
	return nil, fmt.Errorf("%w: %q on %T", ErrUnsupportedOperation, op, recv)
}

func numericBinary(op string, a, b any) (any, error) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if op == OpEq {
		if !aok || !bok {
			return false, nil
		}
		return af == bf, nil
	}
	if !aok || !bok {
		return nil, fmt.Errorf("%w: %q on %T and %T", ErrUnsupportedOperation, op, a, b)
	}
	ai, aInt := asInt(a)
	bi, bInt := asInt(b)
	bothInt := aInt && bInt

	switch op {
	case OpAdd:
		if bothInt {
			return int(ai + bi), nil
		}
		return af + bf, nil
	case OpSub:
		if bothInt {
			return int(ai - bi), nil
		}
		return af - bf, nil
	case OpMul:
		if bothInt {
			return int(ai * bi), nil
		}
		return af * bf, nil
	case OpDiv:
		if bf == 0 {
			return nil, fmt.Errorf("%w: %v / %v", ErrDivisionByZero, a, b)
		}
		return af / bf, nil
	case OpFloorDiv:
		if bf == 0 {
			return nil, fmt.Errorf("%w: %v // %v", ErrDivisionByZero, a, b)
		}
		if bothInt {
			return int(floorDivInt(ai, bi)), nil
		}
		return math.Floor(af / bf), nil
	case OpMod:
		if bf == 0 {
			return nil, fmt.Errorf("%w: %v %% %v", ErrDivisionByZero, a, b)
		}
		if bothInt {
			return int(floorModInt(ai, bi)), nil
		}
		return floorModFloat(af, bf), nil
	case OpPow:
		if bothInt && bi >= 0 {
			return int(powInt(ai, bi)), nil
		}
		return math.Pow(af, bf), nil
	case OpAnd, OpOr, OpXor, OpLShift, OpRShift:
		if !bothInt {
			return nil, fmt.Errorf("%w: %q on %T and %T", ErrUnsupportedOperation, op, a, b)
		}
		switch op {
		case OpAnd:
			return int(ai & bi), nil
		case OpOr:
			return int(ai | bi), nil
		case OpXor:
			return int(ai ^ bi), nil
		}
		if bi < 0 {
			return nil, fmt.Errorf("%w: negative shift count %d", ErrBadOperand, bi)
		}
		if op == OpLShift {
			return int(ai << uint(bi)), nil
		}
		return int(ai >> uint(bi)), nil
	}
	return nil, fmt.Errorf("%w: %q on %T", ErrUnsupportedOperation, op, a)
}

func numericUnary(recv any, op string) (any, error) {
	switch op {
	case OpClone, OpPos:
		return recv, nil
	case OpNot:
		f, _ := asFloat(recv)
		return f == 0, nil
	case OpAbs:
		if i, ok := asInt(recv); ok {
			if i < 0 {
				i = -i
			}
			return int(i), nil
		}
		f, _ := asFloat(recv)
		return math.Abs(f), nil
	case OpNeg:
		if i, ok := asInt(recv); ok {
			return int(-i), nil
		}
		f, _ := asFloat(recv)
		return -f, nil
	case OpInvert:
		i, ok := asInt(recv)
		if !ok {
			return nil, fmt.Errorf("%w: unary invert on %T", ErrBadOperand, recv)
		}
		return int(^i), nil
	case OpIndex:
		i, ok := asInt(recv)
		if !ok {
			return nil, fmt.Errorf("%w: %T cannot be read as an integer", ErrBadOperand, recv)
		}
		return int(i), nil
	}
	return nil, fmt.Errorf("%w: %q on %T", ErrUnsupportedOperation, op, recv)
}

func boolApply(recv bool, op string, args ...any) (any, error) {
	// Logical and/or/xor are symmetric, so reflected forms reuse the
	// forward implementation unchanged.
	if fwd, ok := ForwardOf(op); ok {
		op = fwd
	}
	switch op {
	case OpAnd, OpOr, OpXor, OpEq:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		b, ok := other.(bool)
		if !ok {
			if op == OpEq {
				return false, nil
			}
			return nil, fmt.Errorf("%w: %q on bool and %T", ErrUnsupportedOperation, op, other)
		}
		switch op {
		case OpAnd:
			return recv && b, nil
		case OpOr:
			return recv || b, nil
		case OpXor:
			return recv != b, nil
		default:
			return recv == b, nil
		}
	case OpNot:
		if err := none(op, args); err != nil {
			return nil, err
		}
		return !recv, nil
	case OpIndex:
		if err := none(op, args); err != nil {
			return nil, err
		}
		if recv {
			return 1, nil
		}
		return 0, nil
	case OpClone:
		return recv, nil
	}
	return nil, fmt.Errorf("%w: %q on bool", ErrUnsupportedOperation, op)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func one(op string, args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %q wants one argument, got %d", ErrBadOperand, op, len(args))
	}
	return args[0], nil
}

func none(op string, args []any) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: %q takes no arguments, got %d", ErrBadOperand, op, len(args))
	}
	return nil
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// floorDivInt divides flooring toward negative infinity, so
// floorDivInt(-7, 2) is -4 where Go's -7/2 is -3.
func floorDivInt(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorModInt pairs with floorDivInt: the result takes the divisor's
// sign, so floorModInt(-7, 2) is 1.
func floorModInt(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func floorModFloat(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func powInt(base, exp int64) int64 {
	out := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			out *= base
		}
		base *= base
		exp >>= 1
	}
	return out
}
