// Package cpu exposes the handful of RISC-V supervisor-mode instructions and
// control registers that the kernel core relies on.
package cpu

// PrivilegeMode identifies the privilege level a hart returns to on sret.
type PrivilegeMode uint8

const (
	// User is the least privileged mode; applications run here.
	User = PrivilegeMode(0)

	// Supervisor is the mode the kernel runs in.
	Supervisor = PrivilegeMode(1)
)

// Sstatus bit positions used by the kernel.
const (
	SstatusSIE  = Sstatus(1 << 1)
	SstatusSPIE = Sstatus(1 << 5)
	SstatusSPP  = Sstatus(1 << 8)
)

// Sstatus models the value of the sstatus control register.
type Sstatus uint64

// SPP returns the privilege mode that sret will switch to.
func (s Sstatus) SPP() PrivilegeMode {
	if s&SstatusSPP != 0 {
		return Supervisor
	}
	return User
}

// WithSPP returns a copy of s whose previous-privilege field is set to mode.
func (s Sstatus) WithSPP(mode PrivilegeMode) Sstatus {
	if mode == Supervisor {
		return s | SstatusSPP
	}
	return s &^ SstatusSPP
}
