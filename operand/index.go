package operand

import "fmt"

// Range selects the half-open interval [Start, End) along one axis.
// Negative endpoints count from the end, and out-of-range endpoints are
// clamped rather than rejected, following the usual slicing convention
// of dynamic languages.
type Range struct {
	Start, End int
}

// All selects everything along one axis. It only makes sense inside a
// multi-axis index such as []any{All{}, 2}, which payloads with more
// than one axis may support.
type All struct{}

// Clamp normalizes r against an axis of extent n, resolving negative
// endpoints and clamping both into [0, n]. The returned bounds always
// satisfy 0 <= start <= end <= n, so r.Clamp can never fail; an
// inverted range collapses to an empty one.
func (r Range) Clamp(n int) (start, end int) {
	start, end = r.Start, r.End
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}

// NormIndex normalizes a single index against an axis of extent n.
// Negative indexes count from the end. Unlike Range endpoints, a single
// index outside the axis is an error.
func NormIndex(i, n int) (int, error) {
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, n)
	}
	return j, nil
}
