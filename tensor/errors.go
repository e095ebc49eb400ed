package tensor

import "errors"

// Sentinel errors returned by Tensor operations.
var (
	// ErrShapeMismatch is returned when two shapes must agree and do
	// not, such as element-wise arithmetic between differently shaped
	// tensors or a reshape that changes the element count.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrBadAxis is returned when an axis is outside [0, Dims()).
	ErrBadAxis = errors.New("tensor: bad axis")

	// ErrBadIndex is returned when an index selects outside the tensor.
	ErrBadIndex = errors.New("tensor: bad index")

	// ErrEmptyTensor is returned by reductions that need at least one
	// element, such as min and max.
	ErrEmptyTensor = errors.New("tensor: empty tensor")
)
