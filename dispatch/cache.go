package dispatch

import (
	"context"

	"github.com/IvanBrykalov/dispatchcache/internal/util"
)

// signatureCache maps signatures to entries with single-flight population:
// lookups for a pending entry wait on its gate, and insertIfAbsent elects
// exactly one installer per signature. Calls for different signatures never
// block each other (distinct entries, and usually distinct shards).
type signatureCache struct {
	shards  []*cacheShard
	metrics Metrics
}

// newSignatureCache builds a cache with the given shard count.
// count <= 0 selects an automatic value; any count is rounded up to the
// next power of two so shard selection can mask instead of divide.
func newSignatureCache(count int, metrics Metrics) *signatureCache {
	if count <= 0 {
		count = util.ReasonableShardCount()
	} else {
		count = int(util.NextPow2(uint64(count)))
	}
	shards := make([]*cacheShard, count)
	for i := range shards {
		shards[i] = newCacheShard()
	}
	return &signatureCache{shards: shards, metrics: metrics}
}

func (c *signatureCache) shardFor(sig Signature) *cacheShard {
	return c.shards[util.ShardIndex(sig.Fingerprint(), len(c.shards))]
}

// lookup returns the entry for sig, waiting out an in-flight install.
//
// Absent signature: returns (nil, nil) immediately — the caller must drive
// the miss. Present but pending: blocks until the installer publishes
// (honoring ctx for this waiter only). Published: a failed entry's error is
// propagated to every caller, forever; ready and fallback-marked entries
// are returned for the caller to route.
func (c *signatureCache) lookup(ctx context.Context, sig Signature) (*entry, error) {
	s := c.shardFor(sig)
	e := s.get(sig.Key())
	if e == nil {
		s.misses.Add(1)
		c.metrics.Miss()
		return nil, nil
	}
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	if e.state == entryFailed {
		return nil, e.err
	}
	if e.state == entryReady {
		s.hits.Add(1)
		c.metrics.Hit()
	}
	return e, nil
}

// insertIfAbsent installs a pending entry for sig if none exists, electing
// this caller as the installer when the second result is true.
func (c *signatureCache) insertIfAbsent(sig Signature) (*entry, bool) {
	return c.shardFor(sig).insertIfAbsent(sig.Key())
}

// size returns the total number of resident signatures across all shards.
func (c *signatureCache) size() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}
	return total
}

// stats sums the per-shard hit/miss counters.
func (c *signatureCache) stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
	}
	return st
}
