package trap

import (
	"rvos/kernel"
	"rvos/kernel/kfmt"
)

// OutcomeKind tells how an application's dispatch ended.
type OutcomeKind uint8

const (
	// Exited means the application called exit.
	Exited OutcomeKind = iota

	// Faulted means the application raised an exception and was killed.
	Faulted
)

// Outcome describes why control came back to the kernel for good.
type Outcome struct {
	Kind OutcomeKind

	// ExitCode is valid when Kind is Exited.
	ExitCode int32

	// Cause and Stval are valid when Kind is Faulted.
	Cause Cause
	Stval uintptr
}

// Advancer is the component that owns the running application. The trap
// handler calls Advance once the current application is done; Advance moves
// on to the next application and does not return on real hardware.
type Advancer interface {
	Advance(Outcome)

	// UserBuffer returns the bytes at [addr, addr+size) if the range is
	// accessible to the running application.
	UserBuffer(addr, size uintptr) ([]byte, bool)
}

var (
	advancer Advancer

	errUnsupportedTrap = &kernel.Error{Module: "trap", Message: "unsupported trap"}
	errNoAdvancer      = &kernel.Error{Module: "trap", Message: "trap received before an advancer was installed"}
)

// Install registers the component that Handle reports finished applications
// to.
func Install(a Advancer) {
	advancer = a
}

// Handle processes a trap taken from user mode. cx is the context saved by
// the trap entry routine; the returned context is the one to restore.
//
// Environment calls are dispatched as system calls. Every other exception
// terminates the application. Interrupts are never enabled while an
// application runs so receiving one is fatal.
func Handle(cx *Context, scause, stval uint64) *Context {
	if advancer == nil {
		panic(errNoAdvancer)
	}

	if scause&interruptBit != 0 {
		kfmt.Printf("[kernel] unsupported interrupt %d, stval = 0x%x\n", scause&^interruptBit, stval)
		panic(errUnsupportedTrap)
	}

	cause := Cause(scause)
	if cause == UserEnvCall {
		cx.Sepc += 4
		cx.X[regA0] = uint64(dispatchSyscall(cx.X[regA7], cx.X[regA0], cx.X[regA1], cx.X[regA2]))
		return cx
	}

	kfmt.Printf("[kernel] %s in application, kernel killed it.\n", cause.String())
	advancer.Advance(Outcome{Kind: Faulted, Cause: cause, Stval: uintptr(stval)})
	return cx
}
