package operand_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasbyte1/go-batch/operand"
)

// vec is a minimal Invoker payload used to exercise dispatch precedence
// and the reflected-operation fallback.
type vec struct{ x, y int }

func (v vec) Invoke(name string, args ...any) (any, error) {
	switch name {
	case operand.OpAdd, operand.OpRAdd:
		switch o := args[0].(type) {
		case vec:
			return vec{v.x + o.x, v.y + o.y}, nil
		case int:
			return vec{v.x + o, v.y + o}, nil
		}
	case operand.OpLen:
		return 2, nil
	case "norm1":
		n := v.x + v.y
		if n < 0 {
			n = -n
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q on vec", operand.ErrUnsupportedOperation, name)
}

type countedClone struct{ n int }

func (c *countedClone) Clone() any { return &countedClone{n: c.n + 1} }

func TestInvokerTakesPrecedence(t *testing.T) {
	got, err := operand.Binary(operand.OpAdd, vec{1, 2}, vec{3, 4})
	require.NoError(t, err)
	assert.Equal(t, vec{4, 6}, got)
}

func TestBinaryReflected(t *testing.T) {
	// The left side (a plain int) cannot add a vec, so dispatch must
	// bounce to the vec's radd with the operands swapped.
	got, err := operand.Binary(operand.OpAdd, 10, vec{1, 2})
	require.NoError(t, err)
	assert.Equal(t, vec{11, 12}, got)
}

func TestBinaryBothSidesDecline(t *testing.T) {
	_, err := operand.Binary(operand.OpSub, "abc", vec{1, 2})
	require.ErrorIs(t, err, operand.ErrUnsupportedOperation)
}

func TestInvokeMemberFunction(t *testing.T) {
	got, err := operand.Invoke(vec{3, -5}, "norm1")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = operand.Invoke(vec{1, 1}, "missing")
	require.ErrorIs(t, err, operand.ErrUnsupportedOperation)
}

func TestRegisterOverridesBuiltin(t *testing.T) {
	defer operand.Flush()

	err := operand.Register(0, operand.OpAdd, func(recv any, args ...any) (any, error) {
		return recv.(int) + args[0].(int) + 100, nil
	})
	require.NoError(t, err)
	require.True(t, operand.HasHandler(0, operand.OpAdd))

	got, err := operand.Binary(operand.OpAdd, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 103, got)

	operand.Flush()
	assert.False(t, operand.HasHandler(0, operand.OpAdd))

	got, err = operand.Binary(operand.OpAdd, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestRegisterNewType(t *testing.T) {
	defer operand.Flush()

	type point struct{ x int }
	err := operand.Register(point{}, operand.OpMul, func(recv any, args ...any) (any, error) {
		n, ok := args[0].(int)
		if !ok {
			return nil, operand.ErrUnsupportedOperation
		}
		return point{x: recv.(point).x * n}, nil
	})
	require.NoError(t, err)

	got, err := operand.Binary(operand.OpMul, point{x: 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, point{x: 12}, got)

	operand.Deregister(point{}, operand.OpMul)
	_, err = operand.Binary(operand.OpMul, point{x: 3}, 4)
	require.ErrorIs(t, err, operand.ErrUnsupportedOperation)
}

func TestRegisterValidation(t *testing.T) {
	err := operand.Register(0, "", func(any, ...any) (any, error) { return nil, nil })
	require.ErrorIs(t, err, operand.ErrEmptyOperation)

	err = operand.Register(0, operand.OpAdd, nil)
	require.ErrorIs(t, err, operand.ErrNilHandler)

	err = operand.Register(nil, operand.OpAdd, func(any, ...any) (any, error) { return nil, nil })
	require.ErrorIs(t, err, operand.ErrNilHandler)
}

func TestIndexEntryPoint(t *testing.T) {
	got, err := operand.Index([]int{10, 20, 30}, -1)
	require.NoError(t, err)
	assert.Equal(t, 30, got)

	_, err = operand.Index(42, 0)
	require.ErrorIs(t, err, operand.ErrIndexUnsupported)

	_, err = operand.Index([]int{1, 2}, "nope")
	require.ErrorIs(t, err, operand.ErrIndexUnsupported)

	_, err = operand.Index([]int{1, 2}, 5)
	require.ErrorIs(t, err, operand.ErrIndexOutOfRange)
}

func TestLength(t *testing.T) {
	n, err := operand.Length([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = operand.Length("héllo")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = operand.Length(vec{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = operand.Length(3.5)
	require.ErrorIs(t, err, operand.ErrUnsupportedOperation)
}

func TestCloneValue(t *testing.T) {
	// Cloner implementations win over everything else.
	c := &countedClone{n: 1}
	got := operand.CloneValue(c)
	assert.Equal(t, &countedClone{n: 2}, got)

	// Slices clone deeply; mutating the copy leaves the original alone.
	orig := []any{[]int{1, 2}, "x"}
	cloned := operand.CloneValue(orig).([]any)
	cloned[0].([]int)[0] = 99
	assert.Equal(t, 1, orig[0].([]int)[0])

	// Values with no clone support are shared as-is.
	ch := make(chan int)
	assert.True(t, operand.CloneValue(ch) == (any)(ch))
}

func TestHandlerErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	defer operand.Flush()

	type loud struct{}
	require.NoError(t, operand.Register(loud{}, "shout", func(any, ...any) (any, error) {
		return nil, boom
	}))

	_, err := operand.Invoke(loud{}, "shout")
	require.ErrorIs(t, err, boom)
}
