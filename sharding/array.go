package sharding

import (
	"fmt"

	"github.com/IvanBrykalov/dispatchcache/dispatch"
)

// Array is a logical array split across devices: the logical dtype/shape,
// the sharding spec, and one opaque buffer per device. It is the natural
// dynamic-argument and result type for a sharded callable.
//
// Arrays are treated as immutable once built; the dispatch layer only ever
// reads them.
type Array struct {
	DType dispatch.DType
	Shape []int
	Spec  Spec
	// Shards holds the per-device buffers, indexed by device.
	Shards []dispatch.Buffer
}

// NumShards returns the number of per-device buffers.
func (a *Array) NumShards() int { return len(a.Shards) }

// DispatchSpec implements dispatch.SpecProvider: an Array classifies by its
// logical dtype and shape. Arrays are strongly typed, so the precision mode
// does not demote the dtype.
func (a *Array) DispatchSpec(bool) (dispatch.ArgSpec, error) {
	if a.DType == dispatch.Invalid {
		return dispatch.ArgSpec{}, fmt.Errorf("%w: sharded array without dtype", dispatch.ErrUnsupportedArgument)
	}
	return dispatch.ArgSpec{DType: a.DType, Shape: a.Shape}, nil
}

var _ dispatch.SpecProvider = (*Array)(nil)
