package tensor

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Tensor is a dense, row-major float64 array of arbitrary rank. A
// rank-0 Tensor holds a single element. Storage is always contiguous;
// views produced by dim-0 Narrow and by Reshape alias it, everything
// else copies.
type Tensor struct {
	shape []int
	data  []float64
}

// New builds a Tensor from a shape and its row-major data. The data
// length must equal the shape's element count.
func New(shape []int, data []float64) (*Tensor, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: shape %v wants %d elements, got %d", ErrShapeMismatch, shape, n, len(data))
	}
	return &Tensor{shape: slices.Clone(shape), data: data}, nil
}

// Zeros returns a zero-filled Tensor. It panics on a negative
// dimension, which can only be a programming error.
func Zeros(shape ...int) *Tensor {
	return Full(0, shape...)
}

// Full returns a Tensor with every element set to fill. It panics on a
// negative dimension.
func Full(fill float64, shape ...int) *Tensor {
	n, err := checkShape(shape)
	if err != nil {
		panic("tensor: Full: " + err.Error())
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = fill
	}
	return &Tensor{shape: slices.Clone(shape), data: data}
}

// Arange returns the 1-D Tensor [0, 1, ..., n-1].
func Arange(n int) *Tensor {
	data := make([]float64, max(n, 0))
	for i := range data {
		data[i] = float64(i)
	}
	return &Tensor{shape: []int{len(data)}, data: data}
}

// FromSlice wraps data as a 1-D Tensor. The slice is aliased, not
// copied.
func FromSlice(data []float64) *Tensor {
	return &Tensor{shape: []int{len(data)}, data: data}
}

func checkShape(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension %d in %v", ErrShapeMismatch, d, shape)
		}
		n *= d
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Shape access
// ─────────────────────────────────────────────────────────────────────────────

// Dims returns the rank.
func (t *Tensor) Dims() int {
	return len(t.shape)
}

// Size returns the extent along dim, which must be in [0, Dims()).
func (t *Tensor) Size(dim int) int {
	return t.shape[dim]
}

// Shape returns a copy of the shape.
func (t *Tensor) Shape() []int {
	return slices.Clone(t.shape)
}

// NumEl returns the number of elements.
func (t *Tensor) NumEl() int {
	return len(t.data)
}

// Data returns the backing slice, aliased. Mutating it mutates the
// tensor and every view sharing its storage.
func (t *Tensor) Data() []float64 {
	return t.data
}

// At returns the element at the given multi-axis position. It panics
// when the position does not match the rank or falls outside the
// shape, like a slice index expression would.
func (t *Tensor) At(pos ...int) float64 {
	if len(pos) != len(t.shape) {
		panic(fmt.Sprintf("tensor: At: %d indexes for rank %d", len(pos), len(t.shape)))
	}
	off := 0
	for i, p := range pos {
		if p < 0 || p >= t.shape[i] {
			panic(fmt.Sprintf("tensor: At: index %d out of range for axis %d of size %d", p, i, t.shape[i]))
		}
		off = off*t.shape[i] + p
	}
	return t.data[off]
}

// ─────────────────────────────────────────────────────────────────────────────
// Views and copies
// ─────────────────────────────────────────────────────────────────────────────

// Reshape returns a view with a new shape and the same elements, in
// row-major order. The element count must not change.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}
	if n != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, t.shape, shape)
	}
	return &Tensor{shape: slices.Clone(shape), data: t.data}, nil
}

// Narrow returns the sub-tensor covering [start, start+length) along
// dim. Along axis 0 the result aliases the receiver's storage; along
// any other axis it is a contiguous copy. Narrow implements
// [operand.Sliceable], which is what lets package batch split tensors.
func (t *Tensor) Narrow(dim, start, length int) (any, error) {
	return t.narrow(dim, start, length)
}

func (t *Tensor) narrow(dim, start, length int) (*Tensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, fmt.Errorf("%w: axis %d of rank %d", ErrBadAxis, dim, len(t.shape))
	}
	if start < 0 || length < 0 || start+length > t.shape[dim] {
		return nil, fmt.Errorf("%w: [%d, %d) along axis %d of size %d", ErrBadIndex, start, start+length, dim, t.shape[dim])
	}
	shape := slices.Clone(t.shape)
	shape[dim] = length

	inner := 1
	for _, d := range t.shape[dim+1:] {
		inner *= d
	}
	if dim == 0 {
		return &Tensor{shape: shape, data: t.data[start*inner : (start+length)*inner]}, nil
	}
	outer := 1
	for _, d := range t.shape[:dim] {
		outer *= d
	}
	stride := t.shape[dim] * inner
	out := make([]float64, 0, outer*length*inner)
	for o := 0; o < outer; o++ {
		base := o*stride + start*inner
		out = append(out, t.data[base:base+length*inner]...)
	}
	return &Tensor{shape: shape, data: out}, nil
}

// Clone returns a deep copy. It implements [operand.Cloner], so cloned
// batches duplicate tensor payloads instead of sharing them.
func (t *Tensor) Clone() any {
	return &Tensor{shape: slices.Clone(t.shape), data: slices.Clone(t.data)}
}

// Cat concatenates tensors along dim. All shapes must agree except
// along dim. The result never aliases the inputs.
func Cat(ts []*Tensor, dim int) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("%w: cat of no tensors", ErrEmptyTensor)
	}
	first := ts[0]
	if dim < 0 || dim >= len(first.shape) {
		return nil, fmt.Errorf("%w: axis %d of rank %d", ErrBadAxis, dim, len(first.shape))
	}
	total := 0
	for _, t := range ts {
		if len(t.shape) != len(first.shape) {
			return nil, fmt.Errorf("%w: cat of rank %d and rank %d", ErrShapeMismatch, len(first.shape), len(t.shape))
		}
		for i := range t.shape {
			if i != dim && t.shape[i] != first.shape[i] {
				return nil, fmt.Errorf("%w: cat of %v and %v along axis %d", ErrShapeMismatch, first.shape, t.shape, dim)
			}
		}
		total += t.shape[dim]
	}
	shape := slices.Clone(first.shape)
	shape[dim] = total

	inner := 1
	for _, d := range first.shape[dim+1:] {
		inner *= d
	}
	outer := 1
	for _, d := range first.shape[:dim] {
		outer *= d
	}
	out := make([]float64, 0, outer*total*inner)
	for o := 0; o < outer; o++ {
		for _, t := range ts {
			block := t.shape[dim] * inner
			out = append(out, t.data[o*block:(o+1)*block]...)
		}
	}
	return &Tensor{shape: shape, data: out}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Comparison and display
// ─────────────────────────────────────────────────────────────────────────────

// Equal reports exact element-wise equality of shape and data.
func (t *Tensor) Equal(o *Tensor) bool {
	if o == nil || !slices.Equal(t.shape, o.shape) {
		return false
	}
	return slices.Equal(t.data, o.data)
}

// AllClose reports whether both tensors have the same shape and every
// element pair differs by at most tol.
func (t *Tensor) AllClose(o *Tensor, tol float64) bool {
	if o == nil || !slices.Equal(t.shape, o.shape) {
		return false
	}
	for i, v := range t.data {
		if math.Abs(v-o.data[i]) > tol {
			return false
		}
	}
	return true
}

// String renders shape and data compactly, eliding long data.
func (t *Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor(%v,", t.shape)
	for i, v := range t.data {
		if i == 8 {
			sb.WriteString(" ...")
			break
		}
		fmt.Fprintf(&sb, " %g", v)
	}
	sb.WriteString(")")
	return sb.String()
}
