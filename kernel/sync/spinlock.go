// Package sync provides the kernel's mutual exclusion primitives.
package sync

import "sync/atomic"

// Spinlock is a lock word that is either free or held. The kernel runs on a
// single hart and never waits for it; callers that need to block must build
// on top of TryToAcquire.
type Spinlock struct {
	state uint32
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, 1)
}

// Release relinquishes a held lock allowing other tasks to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}
