// Package trap defines the saved register state used to enter and leave user
// mode and the kernel side of trap handling.
package trap

import (
	"encoding/binary"
	"io"

	"rvos/kernel"
	"rvos/kernel/cpu"
	"rvos/kernel/kfmt"
)

// ContextSize is the in-memory size of a Context. The trap entry and return
// routines depend on this layout.
const ContextSize = 34 * 8

const (
	regSP = 2
	regA0 = 10
	regA1 = 11
	regA2 = 12
	regA7 = 17

	offSstatus = 32 * 8
	offSepc    = 33 * 8
)

var (
	// readSstatusFn is mocked by tests.
	readSstatusFn = cpu.ReadSstatus

	errShortBuffer = &kernel.Error{Module: "trap", Message: "buffer too small for a trap context"}
)

// Context holds the general purpose registers and the supervisor CSRs that
// the privilege switch restores before returning to user mode.
type Context struct {
	// X holds x0-x31. X[0] is never restored.
	X [32]uint64

	// Sstatus holds the privilege state to return with.
	Sstatus uint64

	// Sepc is the address execution resumes at.
	Sepc uint64
}

// AppInitContext returns the context of an application that has not run
// yet: execution starts at entry in user mode with the stack pointer set to
// sp and every other register cleared.
func AppInitContext(entry, sp uintptr) Context {
	cx := Context{
		Sstatus: uint64(readSstatusFn().WithSPP(cpu.User)),
		Sepc:    uint64(entry),
	}
	cx.SetSP(sp)
	return cx
}

// SP returns the saved stack pointer.
func (c *Context) SP() uintptr {
	return uintptr(c.X[regSP])
}

// SetSP sets the saved stack pointer.
func (c *Context) SetSP(sp uintptr) {
	c.X[regSP] = uint64(sp)
}

// MarshalTo writes the context into b using the in-memory layout expected by
// the privilege switch.
func (c *Context) MarshalTo(b []byte) *kernel.Error {
	if len(b) < ContextSize {
		return errShortBuffer
	}

	for i, x := range c.X {
		binary.LittleEndian.PutUint64(b[i*8:], x)
	}
	binary.LittleEndian.PutUint64(b[offSstatus:], c.Sstatus)
	binary.LittleEndian.PutUint64(b[offSepc:], c.Sepc)
	return nil
}

// UnmarshalFrom populates the context from its in-memory layout.
func (c *Context) UnmarshalFrom(b []byte) *kernel.Error {
	if len(b) < ContextSize {
		return errShortBuffer
	}

	for i := range c.X {
		c.X[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	c.Sstatus = binary.LittleEndian.Uint64(b[offSstatus:])
	c.Sepc = binary.LittleEndian.Uint64(b[offSepc:])
	return nil
}

// DumpTo outputs the register contents to w.
func (c *Context) DumpTo(w io.Writer) {
	for i := 0; i < len(c.X); i += 2 {
		kfmt.Fprintf(w, "x%2d = %16x x%2d = %16x\n", i, c.X[i], i+1, c.X[i+1])
	}
	kfmt.Fprintf(w, "sstatus = %16x sepc = %16x\n", c.Sstatus, c.Sepc)
}
