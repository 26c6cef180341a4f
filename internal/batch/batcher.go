// Package batch accumulates a session's outbound records over a sync
// window and folds them through merge + chunk before framing.
package batch

import (
	"sync"

	"github.com/tairasoul/ccsync/internal/project"
)

// Batcher is an ordered, append-only buffer of records. It is guarded by
// a mutex because both the file-event branch and the timer branch of a
// session's loop may touch it.
type Batcher struct {
	mu  sync.Mutex
	buf []project.Request
}

// Add appends a record to the batch.
func (b *Batcher) Add(r project.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, r)
}

// Drain returns the current contents and resets the batcher.
func (b *Batcher) Drain() []project.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.buf
	b.buf = nil
	return out
}
