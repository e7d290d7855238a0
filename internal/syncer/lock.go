package syncer

import (
	"sync"
	"sync/atomic"
)

// namespaceLock provides non-blocking lock semantics using atomic
// operations, serializing full reindexes per namespace within one
// process. Cross-process serialization is the caller's responsibility.
type namespaceLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired.
func (l *namespaceLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that acquired it.
func (l *namespaceLock) Release() {
	l.state.Store(0)
}

// lockRegistry hands out one lock per namespace. Engines are cheap and
// constructed per run, so the locks must outlive any single engine for
// concurrent full reindexes of the same namespace to contend.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*namespaceLock
}

func (r *lockRegistry) get(namespace string) *namespaceLock {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks == nil {
		r.locks = make(map[string]*namespaceLock)
	}
	l, ok := r.locks[namespace]
	if !ok {
		l = &namespaceLock{}
		r.locks[namespace] = l
	}
	return l
}

// locks is process-wide state on purpose: the full-reindex guard must
// hold across independently constructed engines.
var locks lockRegistry
