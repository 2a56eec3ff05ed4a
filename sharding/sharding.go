// Package sharding describes how a logical array value is partitioned
// across devices for parallel execution.
//
// A Spec pairs per-dimension sharding descriptors (NoSharding, Chunked,
// Unstacked) with a mesh mapping (ShardedAxis, Replicated) that places the
// resulting chunks onto the device mesh. All descriptor types are immutable
// values with structural equality, so they can participate in dispatch
// signatures.
package sharding

import (
	"fmt"
	"strings"
)

// DimSharding describes the partitioning of one array dimension.
// Implementations: NoSharding, Chunked, Unstacked.
type DimSharding interface {
	fmt.Stringer
	equalDim(DimSharding) bool
}

// MeshDim maps one unit of partitioning onto the device mesh.
// Implementations: ShardedAxis, Replicated.
type MeshDim interface {
	fmt.Stringer
	equalMesh(MeshDim) bool
}

// NoSharding marks a dimension that is not partitioned.
type NoSharding struct{}

func (NoSharding) String() string { return "NoSharding()" }

func (NoSharding) equalDim(o DimSharding) bool {
	_, ok := o.(NoSharding)
	return ok
}

// Chunked splits a dimension into len(Chunks) parts of the given sizes.
type Chunked struct {
	Chunks []int
}

func (c Chunked) String() string {
	parts := make([]string, len(c.Chunks))
	for i, n := range c.Chunks {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return "Chunked(" + strings.Join(parts, ",") + ")"
}

func (c Chunked) equalDim(o DimSharding) bool {
	oc, ok := o.(Chunked)
	if !ok || len(oc.Chunks) != len(c.Chunks) {
		return false
	}
	for i, n := range c.Chunks {
		if oc.Chunks[i] != n {
			return false
		}
	}
	return true
}

// Unstacked removes a dimension of the given size, one slice per shard.
type Unstacked struct {
	Size int
}

func (u Unstacked) String() string { return fmt.Sprintf("Unstacked(%d)", u.Size) }

func (u Unstacked) equalDim(o DimSharding) bool {
	ou, ok := o.(Unstacked)
	return ok && ou.Size == u.Size
}

// ShardedAxis places the chunks of sharded axis Axis along this mesh
// dimension.
type ShardedAxis struct {
	Axis int
}

func (a ShardedAxis) String() string { return fmt.Sprintf("ShardedAxis(axis=%d)", a.Axis) }

func (a ShardedAxis) equalMesh(o MeshDim) bool {
	oa, ok := o.(ShardedAxis)
	return ok && oa.Axis == a.Axis
}

// Replicated copies the value across Replicas devices along this mesh
// dimension.
type Replicated struct {
	Replicas int
}

func (r Replicated) String() string { return fmt.Sprintf("Replicated(replicas=%d)", r.Replicas) }

func (r Replicated) equalMesh(o MeshDim) bool {
	or, ok := o.(Replicated)
	return ok && or.Replicas == r.Replicas
}

// Spec is the full sharding descriptor of one value: per-dimension
// sharding plus the mesh mapping.
type Spec struct {
	Sharding    []DimSharding
	MeshMapping []MeshDim
}

// Equal reports structural equality of two specs.
func (s Spec) Equal(o Spec) bool {
	if len(s.Sharding) != len(o.Sharding) || len(s.MeshMapping) != len(o.MeshMapping) {
		return false
	}
	for i, d := range s.Sharding {
		if !d.equalDim(o.Sharding[i]) {
			return false
		}
	}
	for i, m := range s.MeshMapping {
		if !m.equalMesh(o.MeshMapping[i]) {
			return false
		}
	}
	return true
}

func (s Spec) String() string {
	dims := make([]string, len(s.Sharding))
	for i, d := range s.Sharding {
		dims[i] = d.String()
	}
	mesh := make([]string, len(s.MeshMapping))
	for i, m := range s.MeshMapping {
		mesh[i] = m.String()
	}
	return "Spec(sharding=[" + strings.Join(dims, ",") + "],mesh_mapping=[" + strings.Join(mesh, ",") + "])"
}
