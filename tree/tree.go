// Package tree provides a structure descriptor for nested values.
//
// A nested value is any combination of []any slices, map[string]any maps and
// opaque leaves. Flatten walks a nested value in a deterministic order
// (slices by index, maps by sorted key) and returns the flat leaf sequence
// together with a Def describing the structure. Unflatten is the inverse:
// it rebuilds the nested value from a flat leaf sequence.
//
// Defs are immutable once built and safe for concurrent use. The dispatch
// layer stores one Def per cache entry to reassemble decoded results into
// the caller-visible shape.
package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrLeafCount is returned by Unflatten when the number of leaves does not
// match the descriptor.
var ErrLeafCount = errors.New("tree: leaf count mismatch")

type kind uint8

const (
	kindLeaf kind = iota
	kindSlice
	kindMap
)

// Def describes the structure of a nested value with the leaves removed.
type Def struct {
	kind     kind
	children []*Def
	keys     []string // kindMap only, sorted; len(keys) == len(children)
	leaves   int
}

// Leaf is the descriptor of a single opaque value.
func Leaf() *Def { return &Def{kind: kindLeaf, leaves: 1} }

// Flatten walks v and returns the leaves in deterministic order plus the
// structure descriptor. Slices are walked by index, maps by sorted key.
// Any value that is neither []any nor map[string]any is a leaf, including nil.
func Flatten(v any) ([]any, *Def) {
	var leaves []any
	d := flatten(v, &leaves)
	return leaves, d
}

func flatten(v any, out *[]any) *Def {
	switch val := v.(type) {
	case []any:
		d := &Def{kind: kindSlice, children: make([]*Def, len(val))}
		for i, c := range val {
			cd := flatten(c, out)
			d.children[i] = cd
			d.leaves += cd.leaves
		}
		return d
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := &Def{kind: kindMap, keys: keys, children: make([]*Def, len(keys))}
		for i, k := range keys {
			cd := flatten(val[k], out)
			d.children[i] = cd
			d.leaves += cd.leaves
		}
		return d
	default:
		*out = append(*out, v)
		return Leaf()
	}
}

// NumLeaves returns the number of leaf slots in the structure.
func (d *Def) NumLeaves() int { return d.leaves }

// Unflatten rebuilds the nested value from a flat leaf sequence.
// len(leaves) must equal NumLeaves().
func (d *Def) Unflatten(leaves []any) (any, error) {
	if len(leaves) != d.leaves {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrLeafCount, len(leaves), d.leaves)
	}
	v, rest := d.unflatten(leaves)
	_ = rest // empty by the count check above
	return v, nil
}

func (d *Def) unflatten(leaves []any) (any, []any) {
	switch d.kind {
	case kindLeaf:
		return leaves[0], leaves[1:]
	case kindSlice:
		out := make([]any, len(d.children))
		for i, c := range d.children {
			out[i], leaves = c.unflatten(leaves)
		}
		return out, leaves
	default: // kindMap
		out := make(map[string]any, len(d.children))
		for i, c := range d.children {
			out[d.keys[i]], leaves = c.unflatten(leaves)
		}
		return out, leaves
	}
}

// Equal reports whether two descriptors describe the same structure.
func (d *Def) Equal(o *Def) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil || d.kind != o.kind || len(d.children) != len(o.children) {
		return false
	}
	for i, k := range d.keys {
		if k != o.keys[i] {
			return false
		}
	}
	for i, c := range d.children {
		if !c.Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// String renders the structure with '*' for leaves, e.g. "{a:*,b:[*,*]}".
func (d *Def) String() string {
	var b strings.Builder
	d.render(&b)
	return b.String()
}

func (d *Def) render(b *strings.Builder) {
	switch d.kind {
	case kindLeaf:
		b.WriteByte('*')
	case kindSlice:
		b.WriteByte('[')
		for i, c := range d.children {
			if i > 0 {
				b.WriteByte(',')
			}
			c.render(b)
		}
		b.WriteByte(']')
	default:
		b.WriteByte('{')
		for i, c := range d.children {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(d.keys[i])
			b.WriteByte(':')
			c.render(b)
		}
		b.WriteByte('}')
	}
}
