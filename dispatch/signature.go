package dispatch

import (
	"fmt"
	"strings"

	"github.com/IvanBrykalov/dispatchcache/internal/util"
)

// Signature is the cache key for one call: everything that must match for
// two calls to safely reuse the same compiled artifact. It is built fresh on
// every call, never mutated, and compared by value.
//
// The representation is a canonical string key (exact equality) plus a
// 64-bit fingerprint used for shard selection. The key folds in, in order:
// the precision mode, the dispatcher-wide and per-call context tokens, the
// static argument values (type and value, by position), the dynamic argument
// count and the dynamic argument specs. Folded value text is length-prefixed
// so it cannot alias the key's separator grammar.
type Signature struct {
	key  string
	hash uint64
}

// Key returns the canonical string form of the signature.
func (s Signature) Key() string { return s.key }

// Fingerprint returns the signature's 64-bit hash.
func (s Signature) Fingerprint() uint64 { return s.hash }

// Equal reports value equality of two signatures.
func (s Signature) Equal(o Signature) bool { return s.key == o.key }

func (s Signature) String() string { return s.key }

// buildSignature derives the signature for one call and splits out the
// dynamic arguments (those not at a static position).
//
// staticNums must be sorted ascending and duplicate-free; the dispatcher
// guarantees that at construction. A static position beyond the argument
// list, or a dynamic argument the classifier rejects, fails derivation and
// the caller falls back to the slow path.
func buildSignature(classify ClassifyFunc, staticNums []int, args []any, x64 bool, globalToken, callToken any) (Signature, []any, error) {
	var b strings.Builder

	if x64 {
		b.WriteString("x64;")
	} else {
		b.WriteString("x32;")
	}
	writeToken(&b, 'g', globalToken)
	writeToken(&b, 'l', callToken)

	// Split static/dynamic by position. staticNums is sorted, so a single
	// cursor walk suffices.
	dynamic := make([]any, 0, len(args))
	cursor := 0
	for i, arg := range args {
		if cursor < len(staticNums) && staticNums[cursor] == i {
			// Static value: folded into the key as type+value.
			fmt.Fprintf(&b, "s%d=", i)
			foldValue(&b, arg)
			b.WriteByte(';')
			cursor++
			continue
		}
		dynamic = append(dynamic, arg)
	}
	if cursor < len(staticNums) {
		return Signature{}, nil, fmt.Errorf("%w: static position %d with %d arguments",
			ErrUnsupportedArgument, staticNums[cursor], len(args))
	}

	fmt.Fprintf(&b, "n%d;", len(dynamic))
	for i, arg := range dynamic {
		spec, err := classify(arg, x64)
		if err != nil {
			return Signature{}, nil, fmt.Errorf("argument %d: %w", i, err)
		}
		fmt.Fprintf(&b, "d%d=", i)
		spec.appendKey(&b)
		b.WriteByte(';')
	}

	key := b.String()
	return Signature{key: key, hash: util.Hash64String(key)}, dynamic, nil
}

// writeToken folds an opaque context token into the key. Absent tokens are
// encoded distinctly from any present value.
func writeToken(b *strings.Builder, tag byte, token any) {
	b.WriteByte(tag)
	b.WriteByte('=')
	if token != nil {
		foldValue(b, token)
	}
	b.WriteByte(';')
}

// foldValue writes a value's textual form (type and value) preceded by its
// byte length. Without the prefix, a value whose text contains the key's
// separators could make two different calls derive identical keys.
func foldValue(b *strings.Builder, v any) {
	s := fmt.Sprintf("%T:%v", v, v)
	fmt.Fprintf(b, "%d:%s", len(s), s)
}
