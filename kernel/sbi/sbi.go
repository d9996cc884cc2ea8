// Package sbi wraps the supervisor binary interface calls that the kernel
// issues to the machine-mode firmware: console output, timer programming and
// power-off. Firmware failures are not modeled; none of the calls report an
// error to their caller.
package sbi

import "rvos/kernel/cpu"

// Extension IDs.
const (
	extConsolePutchar = uintptr(0x01) // legacy extension
	extTimer          = uintptr(0x54494D45)
	extSystemReset    = uintptr(0x53525354)
)

// System reset arguments.
const (
	resetTypeShutdown        = uintptr(0)
	resetReasonNone          = uintptr(0)
	resetReasonSystemFailure = uintptr(1)
)

// errNotSupported is the SBI_ERR_NOT_SUPPORTED return code (-2).
const errNotSupported = ^uintptr(1)

var (
	// sbiCallFn and haltFn are mocked by tests.
	sbiCallFn = sbiCall
	haltFn    = cpu.Halt
)

// ConsolePutchar writes a single byte to the firmware console.
func ConsolePutchar(c byte) {
	sbiCallFn(extConsolePutchar, 0, uintptr(c), 0, 0)
}

// SetTimer programs the next timer interrupt to fire once the time CSR
// reaches deadline.
func SetTimer(deadline uint64) {
	sbiCallFn(extTimer, 0, uintptr(deadline), 0, 0)
}

// Shutdown powers off the machine. The failure flag is forwarded to the
// firmware as the reset reason. Calls to Shutdown never return.
func Shutdown(failure bool) {
	reason := resetReasonNone
	if failure {
		reason = resetReasonSystemFailure
	}

	sbiCallFn(extSystemReset, 0, resetTypeShutdown, reason, 0)

	// A firmware that ignores the reset request leaves us here.
	haltFn()
}
