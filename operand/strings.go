package operand

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Built-in handlers for string payloads. Indexing and length work on
// runes, not bytes, so multi-byte text behaves the way users of a
// dynamic language expect.

func stringApply(recv string, op string, args ...any) (any, error) {
	if fwd, ok := ForwardOf(op); ok {
		// Only radd is meaningful for strings: the other side
		// prepends itself.
		if fwd == OpAdd {
			other, err := one(op, args)
			if err != nil {
				return nil, err
			}
			if s, ok := other.(string); ok {
				return s + recv, nil
			}
		}
		return nil, fmt.Errorf("%w: %q on string", ErrUnsupportedOperation, op)
	}
	switch op {
	case OpAdd, OpConcat:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		s, ok := other.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q on string and %T", ErrUnsupportedOperation, op, other)
		}
		return recv + s, nil
	case OpMul:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		n, ok := asInt(other)
		if !ok {
			return nil, fmt.Errorf("%w: %q on string and %T", ErrUnsupportedOperation, op, other)
		}
		if n <= 0 {
			return "", nil
		}
		return strings.Repeat(recv, int(n)), nil
	case OpEq:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		s, ok := other.(string)
		return ok && recv == s, nil
	case OpLen:
		return utf8.RuneCountInString(recv), nil
	case OpNot:
		return recv == "", nil
	case OpGetItem:
		index, err := one(op, args)
		if err != nil {
			return nil, err
		}
		return stringIndex(recv, index)
	case OpClone:
		return recv, nil
	case "upper":
		return strings.ToUpper(recv), nil
	case "lower":
		return strings.ToLower(recv), nil
	case "strip":
		return strings.TrimSpace(recv), nil
	}
	return nil, fmt.Errorf("%w: %q on string", ErrUnsupportedOperation, op)
}

func stringIndex(s string, index any) (any, error) {
	rs := []rune(s)
	switch ix := index.(type) {
	case int:
		i, err := NormIndex(ix, len(rs))
		if err != nil {
			return nil, err
		}
		return string(rs[i]), nil
	case Range:
		start, end := ix.Clamp(len(rs))
		return string(rs[start:end]), nil
	case []int:
		out := make([]rune, 0, len(ix))
		for _, raw := range ix {
			i, err := NormIndex(raw, len(rs))
			if err != nil {
				return nil, err
			}
			out = append(out, rs[i])
		}
		return string(out), nil
	}
	return nil, fmt.Errorf("%w: %T on string", ErrIndexUnsupported, index)
}
