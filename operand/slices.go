package operand

import (
	"fmt"
	"reflect"
)

// Built-in handlers for slice payloads of any element type, driven by
// reflection so that []float64, []string and []any all behave alike.

func sliceApply(rv reflect.Value, op string, args ...any) (any, error) {
	if fwd, ok := ForwardOf(op); ok {
		if fwd == OpAdd {
			other, err := one(op, args)
			if err != nil {
				return nil, err
			}
			if av := reflect.ValueOf(other); av.Kind() == reflect.Slice && av.Type() == rv.Type() {
				return concatSlices(av, rv), nil
			}
		}
		return nil, fmt.Errorf("%w: %q on %s", ErrUnsupportedOperation, op, rv.Type())
	}
	switch op {
	case OpLen:
		return rv.Len(), nil
	case OpNot:
		return rv.Len() == 0, nil
	case OpEq:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		return reflect.DeepEqual(rv.Interface(), other), nil
	case OpAdd, OpConcat:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		av := reflect.ValueOf(other)
		if av.Kind() != reflect.Slice || av.Type() != rv.Type() {
			return nil, fmt.Errorf("%w: %q on %s and %T", ErrUnsupportedOperation, op, rv.Type(), other)
		}
		return concatSlices(rv, av), nil
	case OpMul:
		other, err := one(op, args)
		if err != nil {
			return nil, err
		}
		n, ok := asInt(other)
		if !ok {
			return nil, fmt.Errorf("%w: %q on %s and %T", ErrUnsupportedOperation, op, rv.Type(), other)
		}
		out := reflect.MakeSlice(rv.Type(), 0, rv.Len()*max(int(n), 0))
		for ; n > 0; n-- {
			out = reflect.AppendSlice(out, rv)
		}
		return out.Interface(), nil
	case OpGetItem:
		index, err := one(op, args)
		if err != nil {
			return nil, err
		}
		return sliceIndex(rv, index)
	case OpClone:
		return cloneSlice(rv), nil
	case "sum":
		if err := none(op, args); err != nil {
			return nil, err
		}
		return sumSlice(rv)
	}
	return nil, fmt.Errorf("%w: %q on %s", ErrUnsupportedOperation, op, rv.Type())
}

func sliceIndex(rv reflect.Value, index any) (any, error) {
	switch ix := index.(type) {
	case int:
		i, err := NormIndex(ix, rv.Len())
		if err != nil {
			return nil, err
		}
		return rv.Index(i).Interface(), nil
	case Range:
		// Shares backing storage, like a Go subslice expression.
		start, end := ix.Clamp(rv.Len())
		return rv.Slice(start, end).Interface(), nil
	case []int:
		out := reflect.MakeSlice(rv.Type(), 0, len(ix))
		for _, raw := range ix {
			i, err := NormIndex(raw, rv.Len())
			if err != nil {
				return nil, err
			}
			out = reflect.Append(out, rv.Index(i))
		}
		return out.Interface(), nil
	case All:
		return rv.Interface(), nil
	}
	return nil, fmt.Errorf("%w: %T on %s", ErrIndexUnsupported, index, rv.Type())
}

func concatSlices(a, b reflect.Value) any {
	out := reflect.MakeSlice(a.Type(), 0, a.Len()+b.Len())
	out = reflect.AppendSlice(out, a)
	out = reflect.AppendSlice(out, b)
	return out.Interface()
}

func cloneSlice(rv reflect.Value) any {
	elem := rv.Type().Elem()
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		cloned := CloneValue(rv.Index(i).Interface())
		if cloned == nil {
			out.Index(i).Set(reflect.Zero(elem))
			continue
		}
		cv := reflect.ValueOf(cloned)
		if cv.Type().AssignableTo(elem) {
			out.Index(i).Set(cv)
		} else {
			out.Index(i).Set(rv.Index(i))
		}
	}
	return out.Interface()
}

func sumSlice(rv reflect.Value) (any, error) {
	total := 0.0
	allInt := true
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		f, ok := asFloat(elem)
		if !ok {
			return nil, fmt.Errorf("%w: sum over %T element", ErrBadOperand, elem)
		}
		if _, isInt := asInt(elem); !isInt {
			allInt = false
		}
		total += f
	}
	if allInt {
		return int(total), nil
	}
	return total, nil
}
