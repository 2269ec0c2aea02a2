package featurestore

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/rohankatakam/hetgraph/internal/errors"
	"gonum.org/v1/gonum/mat"
)

// Array is a rectangular numeric array stored row-major.
// A scalar has an empty Shape and one element.
type Array struct {
	Shape []int
	Data  []float64
}

// Rank returns the number of dimensions
func (a *Array) Rank() int {
	return len(a.Shape)
}

// Len returns the number of elements
func (a *Array) Len() int {
	return len(a.Data)
}

// Equal reports whether both arrays have the same shape and elements.
// NaN elements compare equal to each other.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Shape) != len(b.Shape) || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] && !(math.IsNaN(a.Data[i]) && math.IsNaN(b.Data[i])) {
			return false
		}
	}
	return true
}

// validate checks that Shape describes exactly len(Data) elements
func (a *Array) validate() error {
	size := 1
	for _, d := range a.Shape {
		if d < 0 {
			return errors.CoercionErrorf("negative dimension in shape %v", a.Shape)
		}
		size *= d
	}
	if size != len(a.Data) {
		return errors.CoercionErrorf("shape %v holds %d elements, data has %d", a.Shape, size, len(a.Data))
	}
	return nil
}

// Dense returns the array as a gonum matrix. Scalars become 1x1, vectors
// become a single row. Arrays of rank above two or with a zero dimension
// cannot be represented.
func (a *Array) Dense() (*mat.Dense, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	switch a.Rank() {
	case 0:
		return mat.NewDense(1, 1, []float64{a.Data[0]}), nil
	case 1:
		if a.Shape[0] == 0 {
			return nil, errors.CoercionErrorf("empty array has no matrix form")
		}
		return mat.NewDense(1, a.Shape[0], append([]float64(nil), a.Data...)), nil
	case 2:
		if a.Shape[0] == 0 || a.Shape[1] == 0 {
			return nil, errors.CoercionErrorf("array of shape %v has no matrix form", a.Shape)
		}
		return mat.NewDense(a.Shape[0], a.Shape[1], append([]float64(nil), a.Data...)), nil
	default:
		return nil, errors.CoercionErrorf("rank %d array has no matrix form", a.Rank())
	}
}

// Nested rebuilds the nested list form: float64 for scalars, []any otherwise
func (a *Array) Nested() any {
	return a.nested(func(f float64) any { return f })
}

func (a *Array) nested(leaf func(float64) any) any {
	if a.Rank() == 0 {
		return leaf(a.Data[0])
	}
	out, _ := nest(a.Shape, a.Data, leaf)
	return out
}

func nest(shape []int, data []float64, leaf func(float64) any) (any, int) {
	if len(shape) == 1 {
		out := make([]any, shape[0])
		for i := range out {
			out[i] = leaf(data[i])
		}
		return out, shape[0]
	}
	out := make([]any, shape[0])
	consumed := 0
	for i := range out {
		var n int
		out[i], n = nest(shape[1:], data[consumed:], leaf)
		consumed += n
	}
	return out, consumed
}

// MarshalJSON writes the nested list form so stored arrays read back
// unchanged. NaN and infinities, which JSON cannot carry as numbers, are
// written as the strings "NaN", "+Inf" and "-Inf".
func (a *Array) MarshalJSON() ([]byte, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(a.nested(jsonLeaf))
}

func jsonLeaf(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

// nonFinite parses the string form jsonLeaf writes for NaN and infinities
func nonFinite(s string) (float64, bool) {
	switch s {
	case "NaN":
		return math.NaN(), true
	case "+Inf":
		return math.Inf(1), true
	case "-Inf":
		return math.Inf(-1), true
	}
	return 0, false
}

// Coerce converts v into a rectangular numeric array. Accepted inputs are
// numeric scalars, bools, numeric strings inside JSON-decoded data
// (json.Number, and the "NaN"/"+Inf"/"-Inf" markers MarshalJSON writes),
// slices and arrays of those at any depth, *Array and gonum matrices.
// Ragged nesting, non-numeric leaves and an *Array whose shape disagrees
// with its data fail with a Coercion error.
func Coerce(v any) (*Array, error) {
	switch x := v.(type) {
	case *Array:
		if x == nil {
			return nil, errors.CoercionErrorf("nil array")
		}
		if err := x.validate(); err != nil {
			return nil, err
		}
		return &Array{
			Shape: append([]int{}, x.Shape...),
			Data:  append([]float64{}, x.Data...),
		}, nil
	case mat.Matrix:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, errors.CoercionErrorf("nil matrix")
		}
		r, c := x.Dims()
		data := make([]float64, 0, r*c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				data = append(data, x.At(i, j))
			}
		}
		return &Array{Shape: []int{r, c}, Data: data}, nil
	}

	shape, err := shapeOf(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	size := 1
	for _, d := range shape {
		size *= d
	}
	data := make([]float64, 0, size)
	if err := flatten(reflect.ValueOf(v), shape, &data); err != nil {
		return nil, err
	}
	return &Array{Shape: shape, Data: data}, nil
}

// shapeOf follows the first element down each level
func shapeOf(v reflect.Value) ([]int, error) {
	var shape []int
	for {
		v = deref(v)
		if !v.IsValid() {
			return nil, errors.CoercionErrorf("null value cannot be coerced")
		}
		if !isSequence(v) {
			return shape, nil
		}
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			return shape, nil
		}
		v = v.Index(0)
	}
}

func flatten(v reflect.Value, shape []int, data *[]float64) error {
	v = deref(v)
	if len(shape) == 0 {
		if v.IsValid() && isSequence(v) {
			return errors.CoercionErrorf("ragged nesting: unexpected sequence at leaf")
		}
		f, err := scalar(v)
		if err != nil {
			return err
		}
		*data = append(*data, f)
		return nil
	}
	if !v.IsValid() || !isSequence(v) {
		return errors.CoercionErrorf("ragged nesting: expected sequence of length %d", shape[0])
	}
	if v.Len() != shape[0] {
		return errors.CoercionErrorf("ragged nesting: expected length %d, got %d", shape[0], v.Len())
	}
	for i := 0; i < v.Len(); i++ {
		if err := flatten(v.Index(i), shape[1:], data); err != nil {
			return err
		}
	}
	return nil
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isSequence(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func scalar(v reflect.Value) (float64, error) {
	if !v.IsValid() {
		return 0, errors.CoercionErrorf("null element cannot be coerced")
	}
	if n, ok := v.Interface().(json.Number); ok {
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0, errors.CoercionErrorf("invalid number %q", string(n))
		}
		return f, nil
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		if f, ok := nonFinite(v.String()); ok {
			return f, nil
		}
		return math.NaN(), errors.CoercionErrorf("non-numeric string %q", v.String())
	default:
		return math.NaN(), errors.CoercionErrorf("non-numeric element of type %s", v.Type())
	}
}
