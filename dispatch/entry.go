package dispatch

import (
	"context"

	"github.com/IvanBrykalov/dispatchcache/tree"
)

// entryState is the terminal state of a cache entry once its gate closes.
type entryState uint8

const (
	// entryPending — gate not yet closed; no field besides done is readable.
	entryPending entryState = iota
	// entryReady — executable and handlers installed.
	entryReady
	// entryFallback — this signature is permanently slow-path only.
	entryFallback
	// entryFailed — compilation failed; err is re-raised to every caller.
	entryFailed
)

// entry holds the compiled artifact for one signature together with its
// argument encoder, result decoder and result-structure descriptor.
//
// Publication is one-shot: the installing goroutine sets the fields and
// closes done. Writes happen-before the close, so any goroutine that
// returns from waiting on done reads the final values without further
// synchronization. Entries are never updated or removed afterwards.
type entry struct {
	done chan struct{} // closed exactly once, by the installer

	state   entryState
	exec    Executable
	encode  EncodeFunc
	decode  DecodeFunc
	outTree *tree.Def
	err     error // entryFailed only; sticky for the entry's lifetime
}

func newEntry() *entry {
	return &entry{done: make(chan struct{})}
}

// publishReady installs the materials and closes the gate.
func (e *entry) publishReady(m *FastPathMaterials) {
	e.state = entryReady
	e.exec = m.Executable
	e.encode = m.EncodeArgs
	e.decode = m.DecodeResults
	e.outTree = m.OutTree
	close(e.done)
}

// publishFallback marks the signature as permanently slow-path and closes
// the gate.
func (e *entry) publishFallback() {
	e.state = entryFallback
	close(e.done)
}

// publishFailed records a permanent failure and closes the gate.
func (e *entry) publishFailed(err error) {
	e.state = entryFailed
	e.err = err
	close(e.done)
}

// wait blocks until the gate is closed. Cancelling ctx unblocks only this
// waiter; the installer keeps running and the entry stays pending for
// everyone else until it is published.
func (e *entry) wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
