// Package operand implements the payload-side operation protocol used
// by package batch: a small vocabulary of named operations (add, mul,
// getitem, len, ...) and a dispatcher that resolves each name against a
// payload value of any type.
//
// # Dispatch order
//
// Every operation resolves in the same three steps:
//
//  1. If the payload implements [Invoker], its Invoke method decides.
//  2. Otherwise a handler registered via [Register] for the payload's
//     concrete type is called.
//  3. Otherwise the built-in handlers cover Go's numeric kinds, bool,
//     string, and any slice type.
//
// When none of the three accepts, the operation fails with
// [ErrUnsupportedOperation]. A binary operation whose left side fails
// that way is retried once against the right side under the reflected
// name ("radd" for "add", and so on) with the operands swapped, the way
// dynamic languages bounce unhandled operators to the other operand.
//
// # Built-in semantics
//
// The built-ins behave like a dynamic language, not like Go: mixed
// int/float arithmetic promotes to float64, div always returns a float,
// floordiv and mod floor toward negative infinity, and string indexing
// counts runes. Integer results normalize to int, float results to
// float64.
//
// # Extending
//
// Payload types you control should implement [Invoker] (and [Cloner]
// or [Sliceable] where they apply). Types you cannot modify are taught
// operations through the registry:
//
//	operand.Register(time.Duration(0), operand.OpAdd, func(recv any, args ...any) (any, error) {
//	    d, ok := args[0].(time.Duration)
//	    if !ok {
//	        return nil, operand.ErrUnsupportedOperation
//	    }
//	    return recv.(time.Duration) + d, nil
//	})
//
// Registered handlers are consulted before the built-ins, so a
// registration can also override built-in behavior for a type.
package operand
