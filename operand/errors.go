package operand

import "errors"

// Sentinel errors returned by operand dispatch and the handler registry.
var (
	// ErrUnsupportedOperation is returned when no dispatch target accepts
	// the named operation for the receiver's type.
	ErrUnsupportedOperation = errors.New("operand: unsupported operation")

	// ErrIndexUnsupported is returned by Index when the payload does not
	// support indexing, or does not support the given index form.
	ErrIndexUnsupported = errors.New("operand: unsupported index type")

	// ErrIndexOutOfRange is returned when an index is outside the
	// payload's valid range after negative-index normalization.
	ErrIndexOutOfRange = errors.New("operand: index out of range")

	// ErrBadOperand is returned when an operation exists for the
	// receiver's type but an operand value is invalid for it, such as a
	// negative shift count or a bitwise operation on a float.
	ErrBadOperand = errors.New("operand: bad operand")

	// ErrDivisionByZero is returned by div, floordiv and mod when the
	// divisor is zero.
	ErrDivisionByZero = errors.New("operand: division by zero")

	// ErrEmptyOperation is returned by Register when the operation name
	// is empty.
	ErrEmptyOperation = errors.New("operand: operation name cannot be empty")

	// ErrNilHandler is returned by Register when the handler function or
	// the sample value is nil.
	ErrNilHandler = errors.New("operand: handler cannot be nil")
)
