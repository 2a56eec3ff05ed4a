package sharding

import (
	"testing"
)

func TestDimSharding_Equality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		a, b  DimSharding
		equal bool
	}{
		{"no sharding", NoSharding{}, NoSharding{}, true},
		{"no sharding vs chunked", NoSharding{}, Chunked{Chunks: []int{2}}, false},
		{"chunked same", Chunked{Chunks: []int{2, 2}}, Chunked{Chunks: []int{2, 2}}, true},
		{"chunked different", Chunked{Chunks: []int{2, 2}}, Chunked{Chunks: []int{4}}, false},
		{"unstacked same", Unstacked{Size: 8}, Unstacked{Size: 8}, true},
		{"unstacked different", Unstacked{Size: 8}, Unstacked{Size: 4}, false},
		{"unstacked vs chunked", Unstacked{Size: 2}, Chunked{Chunks: []int{2}}, false},
	}
	for _, tc := range cases {
		if got := tc.a.equalDim(tc.b); got != tc.equal {
			t.Errorf("%s: equal = %v, want %v", tc.name, got, tc.equal)
		}
	}
}

func TestMeshDim_Equality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		a, b  MeshDim
		equal bool
	}{
		{"sharded axis same", ShardedAxis{Axis: 0}, ShardedAxis{Axis: 0}, true},
		{"sharded axis different", ShardedAxis{Axis: 0}, ShardedAxis{Axis: 1}, false},
		{"replicated same", Replicated{Replicas: 2}, Replicated{Replicas: 2}, true},
		{"replicated different", Replicated{Replicas: 2}, Replicated{Replicas: 4}, false},
		{"axis vs replicated", ShardedAxis{Axis: 2}, Replicated{Replicas: 2}, false},
	}
	for _, tc := range cases {
		if got := tc.a.equalMesh(tc.b); got != tc.equal {
			t.Errorf("%s: equal = %v, want %v", tc.name, got, tc.equal)
		}
	}
}

func TestSpec_Equal(t *testing.T) {
	t.Parallel()

	a := Spec{
		Sharding:    []DimSharding{Chunked{Chunks: []int{2}}, NoSharding{}},
		MeshMapping: []MeshDim{ShardedAxis{Axis: 0}, Replicated{Replicas: 2}},
	}
	same := Spec{
		Sharding:    []DimSharding{Chunked{Chunks: []int{2}}, NoSharding{}},
		MeshMapping: []MeshDim{ShardedAxis{Axis: 0}, Replicated{Replicas: 2}},
	}
	if !a.Equal(same) {
		t.Fatal("structurally equal specs reported unequal")
	}

	different := []Spec{
		{Sharding: a.Sharding},               // missing mesh mapping
		{MeshMapping: a.MeshMapping},         // missing sharding
		{Sharding: []DimSharding{NoSharding{}, Chunked{Chunks: []int{2}}}, MeshMapping: a.MeshMapping}, // order matters
	}
	for i, o := range different {
		if a.Equal(o) {
			t.Errorf("variant %d: want unequal", i)
		}
	}
}

func TestStringForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		v    interface{ String() string }
		want string
	}{
		{NoSharding{}, "NoSharding()"},
		{Chunked{Chunks: []int{2, 2}}, "Chunked(2,2)"},
		{Unstacked{Size: 8}, "Unstacked(8)"},
		{ShardedAxis{Axis: 0}, "ShardedAxis(axis=0)"},
		{Replicated{Replicas: 2}, "Replicated(replicas=2)"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("String = %q, want %q", got, tc.want)
		}
	}

	spec := Spec{
		Sharding:    []DimSharding{Unstacked{Size: 2}},
		MeshMapping: []MeshDim{ShardedAxis{Axis: 0}},
	}
	want := "Spec(sharding=[Unstacked(2)],mesh_mapping=[ShardedAxis(axis=0)])"
	if got := spec.String(); got != want {
		t.Errorf("Spec.String = %q, want %q", got, want)
	}
}
