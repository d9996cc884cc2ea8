package loader

import (
	"rvos/kernel"
	"rvos/kernel/mem"
	"rvos/kernel/trap"
)

var (
	errBadSlot       = &kernel.Error{Module: "loader", Message: "slot index out of range"}
	errFrameTooLarge = &kernel.Error{Module: "loader", Message: "frame does not fit in the kernel stack"}
)

// Stack is a fixed-size, page-aligned stack region. Stacks grow down so the
// initial stack pointer is the end of the region.
type Stack struct {
	region *mem.Region
}

// Top returns the initial stack pointer.
func (s Stack) Top() uintptr {
	return s.region.End()
}

// Bottom returns the lowest address of the stack.
func (s Stack) Bottom() uintptr {
	return s.region.Base()
}

// Contains reports whether [addr, addr+size) lies within the stack.
func (s Stack) Contains(addr, size uintptr) bool {
	return s.region.Contains(addr, mem.Size(size))
}

// Slice returns the bytes at [addr, addr+size) if they lie within the stack.
func (s Stack) Slice(addr, size uintptr) ([]byte, bool) {
	sub, err := s.region.Sub(addr, mem.Size(size))
	if err != nil {
		return nil, false
	}
	return sub.Bytes(), true
}

// StackPool holds one kernel stack and one user stack per slot. Each slot
// owns its pair for as long as an application runs from it.
type StackPool struct {
	kernelStacks []Stack
	userStacks   []Stack
}

// NewStackPool carves the stack pool described by layout out of physical
// memory and clears it.
func NewStackPool(pm mem.PhysicalMemory, layout Layout) (*StackPool, *kernel.Error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	start, end := layout.stackArea()
	pool, err := pm.Region(start, mem.Size(end-start))
	if err != nil {
		return nil, err
	}
	pool.Zero()

	p := &StackPool{
		kernelStacks: make([]Stack, layout.SlotCount),
		userStacks:   make([]Stack, layout.SlotCount),
	}

	pairSize := layout.KernelStackSize + layout.UserStackSize
	for slot := 0; slot < layout.SlotCount; slot++ {
		kbase := start + uintptr(slot)*pairSize
		kstack, _ := pool.Sub(kbase, mem.Size(layout.KernelStackSize))
		ustack, _ := pool.Sub(kbase+layout.KernelStackSize, mem.Size(layout.UserStackSize))

		p.kernelStacks[slot] = Stack{region: kstack}
		p.userStacks[slot] = Stack{region: ustack}
	}

	return p, nil
}

// KernelStack returns the kernel stack of slot.
func (p *StackPool) KernelStack(slot int) (Stack, *kernel.Error) {
	if slot < 0 || slot >= len(p.kernelStacks) {
		return Stack{}, errBadSlot
	}
	return p.kernelStacks[slot], nil
}

// UserStack returns the user stack of slot.
func (p *StackPool) UserStack(slot int) (Stack, *kernel.Error) {
	if slot < 0 || slot >= len(p.userStacks) {
		return Stack{}, errBadSlot
	}
	return p.userStacks[slot], nil
}

// PushFrame copies frame to the top of the kernel stack of slot and returns
// its address.
func (p *StackPool) PushFrame(slot int, frame []byte) (uintptr, *kernel.Error) {
	kstack, err := p.KernelStack(slot)
	if err != nil {
		return 0, err
	}

	if uintptr(len(frame)) > uintptr(kstack.region.Size()) {
		return 0, errFrameTooLarge
	}

	addr := kstack.Top() - uintptr(len(frame))
	if err := kstack.region.CopyAt(addr, frame); err != nil {
		return 0, err
	}

	return addr, nil
}

// PushContext copies cx to the top of the kernel stack of slot and returns
// its address. That address is what the privilege switch restores from.
func (p *StackPool) PushContext(slot int, cx *trap.Context) (uintptr, *kernel.Error) {
	var frame [trap.ContextSize]byte
	if err := cx.MarshalTo(frame[:]); err != nil {
		return 0, err
	}

	return p.PushFrame(slot, frame[:])
}

// ContextAt reads back a context previously pushed to the kernel stack of
// slot.
func (p *StackPool) ContextAt(slot int, addr uintptr) (trap.Context, *kernel.Error) {
	var cx trap.Context

	kstack, err := p.KernelStack(slot)
	if err != nil {
		return cx, err
	}

	frame, err := kstack.region.Sub(addr, trap.ContextSize)
	if err != nil {
		return cx, err
	}

	err = cx.UnmarshalFrom(frame.Bytes())
	return cx, err
}
