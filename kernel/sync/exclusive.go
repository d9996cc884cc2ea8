package sync

import "rvos/kernel"

var errAlreadyHeld = &kernel.Error{Module: "sync", Message: "exclusive access requested while already held"}

// Exclusive guards state that is only ever touched by the kernel's single
// flow of control. Unlike a Spinlock it never waits: on a single hart a held
// guard can only mean re-entry, e.g. a trap that calls back into a component
// that forgot to release the guard before leaving the kernel. Such a re-entry
// is a kernel bug and Acquire panics instead of deadlocking.
type Exclusive struct {
	lock Spinlock
}

// Acquire takes the guard or panics if it is already held.
func (e *Exclusive) Acquire() {
	if !e.lock.TryToAcquire() {
		panic(errAlreadyHeld)
	}
}

// Release frees the guard. It must be called before control leaves the
// kernel.
func (e *Exclusive) Release() {
	e.lock.Release()
}

// Held reports whether the guard is currently taken.
func (e *Exclusive) Held() bool {
	if e.lock.TryToAcquire() {
		e.lock.Release()
		return false
	}
	return true
}
