//go:build !riscv64

package sbi

import "os"

// hostedDeadline records the last deadline passed to SetTimer when running
// on a development host.
var hostedDeadline uint64

// sbiCall emulates the firmware on a development host: console output goes
// to stdout and a system reset terminates the process.
func sbiCall(ext, _, arg0, arg1, _ uintptr) (uintptr, uintptr) {
	switch ext {
	case extConsolePutchar:
		_, _ = os.Stdout.Write([]byte{byte(arg0)})
	case extTimer:
		hostedDeadline = uint64(arg0)
	case extSystemReset:
		os.Exit(int(arg1))
	default:
		return errNotSupported, 0
	}

	return 0, 0
}
