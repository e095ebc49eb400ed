package operand

import (
	"reflect"
	"sync"
)

// Handler is the function signature for a registered operation handler.
//
// The receiver is passed as an any so that one handler can be registered
// for several concrete types. Binary operations receive exactly one
// argument; unary and structural operations receive none unless the
// caller supplies extras.
type Handler func(recv any, args ...any) (any, error)

type handlerKey struct {
	typ reflect.Type
	op  string
}

// handlerRegistry is the package-level, goroutine-safe handler store.
// It is keyed by (concrete type, operation name) and consulted after
// the payload's own Invoke method but before the built-ins, so a
// registration can override built-in behavior for a type.
var handlerRegistry struct {
	mu       sync.RWMutex
	handlers map[handlerKey]Handler
}

func init() {
	handlerRegistry.handlers = make(map[handlerKey]Handler)
}

// Register adds a handler for the given operation on values whose
// dynamic type matches sample's. If a handler for that (type, op) pair
// already exists it is replaced. Safe to call from multiple goroutines.
//
// Example – teach complex128 payloads to add:
//
//	operand.Register(complex128(0), operand.OpAdd, func(recv any, args ...any) (any, error) {
//	    other, ok := args[0].(complex128)
//	    if !ok {
//	        return nil, operand.ErrUnsupportedOperation
//	    }
//	    return recv.(complex128) + other, nil
//	})
func Register(sample any, op string, fn Handler) error {
	if op == "" {
		return ErrEmptyOperation
	}
	if fn == nil || sample == nil {
		return ErrNilHandler
	}
	key := handlerKey{typ: reflect.TypeOf(sample), op: op}
	handlerRegistry.mu.Lock()
	defer handlerRegistry.mu.Unlock()
	handlerRegistry.handlers[key] = fn
	return nil
}

// Deregister removes the handler for the given operation on sample's
// type. Removing a handler that was never registered is a no-op.
func Deregister(sample any, op string) {
	if sample == nil {
		return
	}
	key := handlerKey{typ: reflect.TypeOf(sample), op: op}
	handlerRegistry.mu.Lock()
	defer handlerRegistry.mu.Unlock()
	delete(handlerRegistry.handlers, key)
}

// HasHandler reports whether a handler is registered for the given
// operation on v's dynamic type. It does not consult the payload's own
// Invoke method or the built-ins.
func HasHandler(v any, op string) bool {
	_, ok := lookup(v, op)
	return ok
}

// Flush removes all registered handlers, restoring built-in behavior.
// Intended for use in tests.
func Flush() {
	handlerRegistry.mu.Lock()
	defer handlerRegistry.mu.Unlock()
	handlerRegistry.handlers = make(map[handlerKey]Handler)
}

func lookup(v any, op string) (Handler, bool) {
	if v == nil {
		return nil, false
	}
	key := handlerKey{typ: reflect.TypeOf(v), op: op}
	handlerRegistry.mu.RLock()
	defer handlerRegistry.mu.RUnlock()
	h, ok := handlerRegistry.handlers[key]
	return h, ok
}
