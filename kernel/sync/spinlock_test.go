package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinlockTryToAcquire(t *testing.T) {
	var sl Spinlock

	assert.True(t, sl.TryToAcquire())
	assert.False(t, sl.TryToAcquire(), "a held lock cannot be taken twice")

	sl.Release()
	sl.Release()
	assert.True(t, sl.TryToAcquire(), "releasing a free lock must leave it free")
}

func TestSpinlockSingleOwner(t *testing.T) {
	var (
		sl     Spinlock
		wg     sync.WaitGroup
		mu     sync.Mutex
		owners int
	)

	// Hold the lock while every contender tries to take it; none may win.
	sl.TryToAcquire()

	const contenders = 16
	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		go func() {
			defer wg.Done()
			if sl.TryToAcquire() {
				mu.Lock()
				owners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, owners)
}
