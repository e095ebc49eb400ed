package batch

import (
	"errors"
	"fmt"

	"github.com/hasbyte1/go-batch/operand"
)

// Sentinel errors returned by Batch operations.
var (
	// ErrKeyNotFound is returned when a key, or the first segment of a
	// dotted path, names no entry.
	ErrKeyNotFound = errors.New("batch: key not found")

	// ErrNotIndexable is returned when a dotted path descends into a
	// payload that is not a nested batch.
	ErrNotIndexable = errors.New("batch: path segment is not a nested batch")

	// ErrKeyMismatch is returned by key-matched operations when the
	// right operand or a batch-valued argument is missing one of the
	// receiver's keys.
	ErrKeyMismatch = errors.New("batch: operand keys do not match")

	// ErrKeyCollision is returned when a key transformation maps two
	// distinct keys to the same name.
	ErrKeyCollision = errors.New("batch: key collision")

	// ErrReservedKey is returned when a key or member name is empty or
	// starts with an underscore.
	ErrReservedKey = errors.New("batch: reserved key name")

	// ErrBadPattern is returned by Query when a wildcard pattern does
	// not compile.
	ErrBadPattern = errors.New("batch: bad wildcard pattern")

	// ErrSizeMismatch is returned by FromTensor when the sizes do not
	// cover the payload's extent along the split axis exactly.
	ErrSizeMismatch = errors.New("batch: sizes do not match payload extent")

	// ErrInvalidAxis is returned by FromTensor when the split axis does
	// not exist on the payload.
	ErrInvalidAxis = errors.New("batch: invalid split axis")

	// ErrEmptyBatch is returned when a member function is forwarded on
	// a batch with no entries.
	ErrEmptyBatch = errors.New("batch: empty batch")

	// ErrNotString is returned by Remap and Transpose when a payload
	// that must name a key is not a string.
	ErrNotString = errors.New("batch: string payload required")
)

// Payload-level failures surface through the operand package and pass
// through Batch operations unchanged. They are re-exported here so
// callers can match the whole error taxonomy with one import.
var (
	ErrUnsupportedOperation = operand.ErrUnsupportedOperation
	ErrIndexUnsupported     = operand.ErrIndexUnsupported
)

// wrapKey names the key whose payload failed an operation. The wrapped
// error stays matchable with errors.Is.
func wrapKey(key string, err error) error {
	return fmt.Errorf("key %q: %w", key, err)
}
