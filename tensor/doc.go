// Package tensor provides a dense, row-major float64 array that plugs
// into package batch as a payload. It implements operand.Invoker for
// element-wise arithmetic and member functions, and operand.Sliceable
// so batch construction can cut a payload along an axis. Clone gives
// batch cloning a deep copy to work with.
//
// The type stays small: a shape and contiguous data, plus the handful
// of operations a batch pipeline needs. It is a reference payload, not
// a linear-algebra library.
//
// # Aliasing
//
// Dim-0 narrows, Reshape, FromSlice and Data alias the backing
// storage; every other operation copies. Clone always copies.
package tensor
