package dispatch

import (
	"context"
	"testing"
)

// BenchmarkCall_Hot measures the all-hit dispatch path end to end:
// signature derivation, cache lookup, encode, execute, decode.
func BenchmarkCall_Hot(b *testing.B) {
	fn, err := New(Options{
		SlowPath:      newSlowPath(slowConfig{}),
		StaticArgNums: []int{0},
	})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	v := vec{[]float32{1, 2, 3, 4, 5, 6, 7, 8}}

	// Warm the single entry.
	if _, err := fn.Call(ctx, 3, v); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := fn.Call(ctx, 3, v); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkBuildSignature isolates key derivation, the per-call fixed cost
// paid even on hits.
func BenchmarkBuildSignature(b *testing.B) {
	args := []any{3, vec{[]float32{1, 2, 3, 4, 5, 6, 7, 8}}, vec{[]float32{1, 2}}}
	staticNums := []int{0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := buildSignature(DefaultClassify, staticNums, args, false, "global", nil); err != nil {
			b.Fatal(err)
		}
	}
}
