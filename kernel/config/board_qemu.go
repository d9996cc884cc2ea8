// Package config holds the compile-time constants that describe the target
// board and the fixed physical memory layout used for user applications.
package config

// ClockFreq is the frequency of the time CSR on the qemu virt board.
const ClockFreq = 12500000

// MemoryEnd is the first physical address past the end of RAM.
const MemoryEnd = uintptr(0x88000000)

// MMIOWindow describes a memory-mapped device range.
type MMIOWindow struct {
	Base uintptr
	Size uintptr
}

// MMIO lists the device windows of the qemu virt board the kernel touches.
var MMIO = []MMIOWindow{
	{0x00100000, 0x2000}, // VIRT_TEST/RTC
}
