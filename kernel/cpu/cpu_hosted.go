//go:build !riscv64

package cpu

import "time"

// hostedTimebase is the frequency of the emulated time CSR. It matches the
// qemu virt board so that tick arithmetic behaves the same on the host.
const hostedTimebase = 12500000

var hostedEpoch = time.Now()

// FenceI is a no-op on hosts with coherent instruction caches.
func FenceI() {}

// Halt blocks the calling goroutine forever.
func Halt() {
	select {}
}

// ReadTime returns the number of emulated timer ticks since process start.
func ReadTime() uint64 {
	return uint64(time.Since(hostedEpoch).Nanoseconds()) / (uint64(time.Second) / hostedTimebase)
}

// ReadSstatus returns the reset value of sstatus.
func ReadSstatus() Sstatus {
	return 0
}
