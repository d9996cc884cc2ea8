//go:build !riscv64

package trap

import "rvos/kernel"

var errNoPrivilegeSwitch = &kernel.Error{Module: "trap", Message: "privilege switch is only available on riscv64"}

// Restore cannot leave the current privilege level on a development host.
// Code that dispatches applications on the host swaps it out.
func Restore(_ uintptr) {
	panic(errNoPrivilegeSwitch)
}
