// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"github.com/cespare/xxhash/v2"
)

// Hash64String returns the 64-bit xxHash of s.
// xxHash is non-cryptographic; it is used for shard selection and signature
// fingerprints, where speed matters and inputs are not adversarial.
func Hash64String(s string) uint64 {
	return xxhash.Sum64String(s)
}
