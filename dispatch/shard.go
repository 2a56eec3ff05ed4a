package dispatch

import (
	"sync"

	"github.com/IvanBrykalov/dispatchcache/internal/util"
)

// cacheShard is an independent partition of the signature cache with its
// own lock and map. The cache is append-only: entries are inserted once and
// never updated or removed, so reads take the read lock and the write lock
// is held only for the one insert a signature ever sees.
type cacheShard struct {
	mu sync.RWMutex
	m  map[string]*entry

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
}

func newCacheShard() *cacheShard {
	return &cacheShard{m: make(map[string]*entry)}
}

// get returns the entry for key, or nil when absent.
func (s *cacheShard) get(key string) *entry {
	s.mu.RLock()
	e := s.m[key]
	s.mu.RUnlock()
	return e
}

// insertIfAbsent installs a fresh pending entry for key if none exists.
// The second result reports whether this caller performed the insert and is
// therefore responsible for publishing the entry.
func (s *cacheShard) insertIfAbsent(key string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.m[key]; ok {
		return e, false
	}
	e := newEntry()
	s.m[key] = e
	return e, true
}

// len returns the number of resident entries in this shard.
func (s *cacheShard) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
