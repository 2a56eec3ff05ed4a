package dispatch

import (
	"errors"
	"testing"
)

func buildSig(t *testing.T, staticNums []int, args []any, x64 bool, global, local any) Signature {
	t.Helper()
	sig, _, err := buildSignature(DefaultClassify, staticNums, args, x64, global, local)
	if err != nil {
		t.Fatalf("buildSignature: %v", err)
	}
	return sig
}

// Signatures are equal iff every cache-relevant input matches.
func TestSignature_EqualityLaw(t *testing.T) {
	t.Parallel()

	base := func() Signature {
		return buildSig(t, []int{0}, []any{3, vec{[]float32{1, 2, 3, 4}}}, false, "g", "l")
	}
	if !base().Equal(base()) {
		t.Fatal("identical inputs must produce equal signatures")
	}
	if base().Fingerprint() != base().Fingerprint() {
		t.Fatal("equal signatures must have equal fingerprints")
	}

	variants := map[string]Signature{
		// Same shape descriptor, different data: still equal.
		"same shapes, different data": buildSig(t, []int{0}, []any{3, vec{[]float32{9, 9, 9, 9}}}, false, "g", "l"),
	}
	for name, sig := range variants {
		if !sig.Equal(base()) {
			t.Errorf("%s: want equal signatures", name)
		}
	}

	unequal := map[string]Signature{
		"different static value": buildSig(t, []int{0}, []any{4, vec{[]float32{1, 2, 3, 4}}}, false, "g", "l"),
		"different static type":  buildSig(t, []int{0}, []any{int32(3), vec{[]float32{1, 2, 3, 4}}}, false, "g", "l"),
		"different shape":        buildSig(t, []int{0}, []any{3, vec{[]float32{1, 2, 3}}}, false, "g", "l"),
		"different precision":    buildSig(t, []int{0}, []any{3, vec{[]float32{1, 2, 3, 4}}}, true, "g", "l"),
		"different global token": buildSig(t, []int{0}, []any{3, vec{[]float32{1, 2, 3, 4}}}, false, "G", "l"),
		"different call token":   buildSig(t, []int{0}, []any{3, vec{[]float32{1, 2, 3, 4}}}, false, "g", "L"),
		"missing call token":     buildSig(t, []int{0}, []any{3, vec{[]float32{1, 2, 3, 4}}}, false, "g", nil),
	}
	for name, sig := range unequal {
		if sig.Equal(base()) {
			t.Errorf("%s: want unequal signatures", name)
		}
	}
}

// A static value or token whose textual form spells out key structure must
// not collide with a call that actually has that structure.
func TestSignature_ValueTextCannotAliasKeyStructure(t *testing.T) {
	t.Parallel()

	v := vec{[]float32{1, 2, 3, 4}}

	// One static argument that prints like "a static plus a dynamic spec"
	// versus the genuine two-argument call.
	spoofed := buildSig(t, []int{0}, []any{"abc;d0=f32[4]"}, false, nil, nil)
	genuine := buildSig(t, []int{0}, []any{"abc", v}, false, nil, nil)
	if spoofed.Equal(genuine) {
		t.Fatalf("static value text aliased key structure: %q", spoofed.Key())
	}

	// Token text absorbing the neighboring static fragment.
	shifted := buildSig(t, []int{0}, []any{"x"}, false, "t;s0=7:string:x", nil)
	honest := buildSig(t, []int{0}, []any{"x"}, false, "t", nil)
	if shifted.Equal(honest) {
		t.Fatalf("token text aliased key structure: %q", shifted.Key())
	}

	// Same specs with a different dynamic arity must split.
	one := buildSig(t, nil, []any{v}, false, nil, nil)
	two := buildSig(t, nil, []any{v, v}, false, nil, nil)
	if one.Equal(two) {
		t.Fatal("different dynamic counts must produce unequal signatures")
	}
}

func TestSignature_SplitsDynamicArguments(t *testing.T) {
	t.Parallel()

	v := vec{[]float32{1, 2}}
	_, dynamic, err := buildSignature(DefaultClassify, []int{0, 2}, []any{1, v, "mode"}, false, nil, nil)
	if err != nil {
		t.Fatalf("buildSignature: %v", err)
	}
	if len(dynamic) != 1 {
		t.Fatalf("dynamic count = %d, want 1", len(dynamic))
	}
	if _, ok := dynamic[0].(vec); !ok {
		t.Fatalf("dynamic[0] type %T, want vec", dynamic[0])
	}
}

func TestSignature_StaticPositionOutOfRange(t *testing.T) {
	t.Parallel()

	_, _, err := buildSignature(DefaultClassify, []int{5}, []any{1}, false, nil, nil)
	if !errors.Is(err, ErrUnsupportedArgument) {
		t.Fatalf("want ErrUnsupportedArgument, got %v", err)
	}
}

func TestSignature_UnclassifiableArgument(t *testing.T) {
	t.Parallel()

	_, _, err := buildSignature(DefaultClassify, nil, []any{opaque{}}, false, nil, nil)
	if !errors.Is(err, ErrUnsupportedArgument) {
		t.Fatalf("want ErrUnsupportedArgument, got %v", err)
	}
}

func TestDefaultClassify_ScalarDemotion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		v    any
		x64  bool
		want DType
	}{
		{"int demoted", int(1), false, Int32},
		{"int full width", int(1), true, Int64},
		{"float64 demoted", 1.5, false, Float32},
		{"float64 full width", 1.5, true, Float64},
		{"float32 keeps width", float32(1.5), false, Float32},
		{"complex demoted", complex(1, 2), false, Complex64},
		{"complex full width", complex(1, 2), true, Complex128},
		{"bool", true, false, Bool},
	}
	for _, tc := range cases {
		spec, err := DefaultClassify(tc.v, tc.x64)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if spec.DType != tc.want {
			t.Errorf("%s: dtype %v, want %v", tc.name, spec.DType, tc.want)
		}
		if !spec.WeakType {
			t.Errorf("%s: scalars must be weakly typed", tc.name)
		}
		if len(spec.Shape) != 0 {
			t.Errorf("%s: scalars must be rank 0", tc.name)
		}
	}
}

func TestArgSpec_StringAndEqual(t *testing.T) {
	t.Parallel()

	a := ArgSpec{DType: Float32, Shape: []int{4, 8}}
	if got := a.String(); got != "f32[4,8]" {
		t.Fatalf("String = %q, want %q", got, "f32[4,8]")
	}
	w := ArgSpec{DType: Int32, WeakType: true}
	if got := w.String(); got != "i32[]~" {
		t.Fatalf("String = %q, want %q", got, "i32[]~")
	}
	if !a.Equal(ArgSpec{DType: Float32, Shape: []int{4, 8}}) {
		t.Fatal("equal specs reported unequal")
	}
	if a.Equal(ArgSpec{DType: Float32, Shape: []int{8, 4}}) {
		t.Fatal("different shapes reported equal")
	}
	if a.Equal(ArgSpec{DType: Float32, Shape: []int{4, 8}, WeakType: true}) {
		t.Fatal("weak-type flag must participate in equality")
	}
}
