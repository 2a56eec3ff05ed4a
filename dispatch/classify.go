package dispatch

import (
	"fmt"
	"strconv"
	"strings"
)

// DType identifies the element type of a dynamic argument.
type DType uint8

const (
	Invalid DType = iota
	Bool
	Int32
	Int64
	Float32
	Float64
	Complex64
	Complex128
)

// String returns the short dtype name used in signature keys and reprs.
func (d DType) String() string {
	switch d {
	case Bool:
		return "b1"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	case Complex64:
		return "c64"
	case Complex128:
		return "c128"
	default:
		return "invalid"
	}
}

// demote maps a dtype to its 32-bit form when 64-bit precision is disabled.
func (d DType) demote(x64 bool) DType {
	if x64 {
		return d
	}
	switch d {
	case Int64:
		return Int32
	case Float64:
		return Float32
	case Complex128:
		return Complex64
	default:
		return d
	}
}

// ArgSpec summarizes one dynamic argument for signature purposes:
// element type, shape and whether the value is weakly typed (a plain scalar
// whose dtype came from a default rather than from the value itself).
// Nil Shape means rank 0 (a scalar).
type ArgSpec struct {
	DType    DType
	Shape    []int
	WeakType bool
}

// String renders the spec in the compact "f32[4,8]" form ("~" marks weak).
func (a ArgSpec) String() string {
	var b strings.Builder
	a.appendKey(&b)
	return b.String()
}

// appendKey writes the spec's canonical signature-key form.
func (a ArgSpec) appendKey(b *strings.Builder) {
	b.WriteString(a.DType.String())
	b.WriteByte('[')
	for i, dim := range a.Shape {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(dim))
	}
	b.WriteByte(']')
	if a.WeakType {
		b.WriteByte('~')
	}
}

// Equal reports whether two specs would dispatch to the same artifact.
func (a ArgSpec) Equal(o ArgSpec) bool {
	if a.DType != o.DType || a.WeakType != o.WeakType || len(a.Shape) != len(o.Shape) {
		return false
	}
	for i, dim := range a.Shape {
		if dim != o.Shape[i] {
			return false
		}
	}
	return true
}

// ClassifyFunc derives an ArgSpec for one dynamic argument value under the
// given precision mode. Implementations return ErrUnsupportedArgument
// (possibly wrapped) for values the fast path cannot introspect, which the
// dispatcher treats as a silent routing decision, or ErrNoFastPath to latch
// the dispatcher into permanent slow-path mode.
type ClassifyFunc func(v any, x64 bool) (ArgSpec, error)

// SpecProvider lets richer argument values (device-sharded arrays, tensors)
// describe themselves to the default classifier.
type SpecProvider interface {
	DispatchSpec(x64 bool) (ArgSpec, error)
}

// DefaultClassify handles SpecProvider values and plain Go scalars.
// Scalars are weakly typed: their dtype comes from the Go type, demoted to
// the 32-bit form when 64-bit precision is disabled. Anything else is
// reported as unsupported, routing the call to the slow path.
func DefaultClassify(v any, x64 bool) (ArgSpec, error) {
	if sp, ok := v.(SpecProvider); ok {
		return sp.DispatchSpec(x64)
	}
	switch v.(type) {
	case bool:
		return ArgSpec{DType: Bool, WeakType: true}, nil
	case int, int64:
		return ArgSpec{DType: Int64.demote(x64), WeakType: true}, nil
	case int32:
		return ArgSpec{DType: Int32, WeakType: true}, nil
	case float64:
		return ArgSpec{DType: Float64.demote(x64), WeakType: true}, nil
	case float32:
		return ArgSpec{DType: Float32, WeakType: true}, nil
	case complex128:
		return ArgSpec{DType: Complex128.demote(x64), WeakType: true}, nil
	case complex64:
		return ArgSpec{DType: Complex64, WeakType: true}, nil
	default:
		return ArgSpec{}, fmt.Errorf("%w: %T", ErrUnsupportedArgument, v)
	}
}
