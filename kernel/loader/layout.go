package loader

import (
	"rvos/kernel"
	"rvos/kernel/config"
	"rvos/kernel/mem"
	"rvos/kernel/trap"
)

var (
	errBadSlotCount  = &kernel.Error{Module: "loader", Message: "slot count must be between 1 and the maximum number of applications"}
	errUnalignedArea = &kernel.Error{Module: "loader", Message: "slot and stack areas must be page aligned"}
	errStackOverlap  = &kernel.Error{Module: "loader", Message: "stack pool overlaps the application slots"}
	errContextTooBig = &kernel.Error{Module: "loader", Message: "trap context does not fit in a kernel stack"}
)

// Layout describes where application slots and their stacks live in
// physical memory.
//
// With SlotCount == 1 every application runs from the same slot and is
// copied in right before it is dispatched. With SlotCount == MaxApps every
// application owns a slot and all of them can be loaded once at boot.
type Layout struct {
	// AppBase is the physical address of slot 0.
	AppBase uintptr

	// SlotSize is the size of every slot; it bounds the application size.
	SlotSize uintptr

	// SlotCount is the number of slots.
	SlotCount int

	// StackBase is the physical address of the stack pool which holds one
	// (kernel, user) stack pair per slot.
	StackBase uintptr

	KernelStackSize uintptr
	UserStackSize   uintptr
}

// DefaultLayout returns the single-slot layout where applications take
// turns occupying the same slot.
func DefaultLayout() Layout {
	return Layout{
		AppBase:         config.AppBaseAddress,
		SlotSize:        config.AppSizeLimit,
		SlotCount:       1,
		StackBase:       config.StackPoolBase,
		KernelStackSize: config.KernelStackSize,
		UserStackSize:   config.UserStackSize,
	}
}

// PreloadedLayout returns the layout where each application owns a slot.
func PreloadedLayout() Layout {
	l := DefaultLayout()
	l.SlotCount = config.MaxApps
	return l
}

// Slot returns the slot that application id runs from.
func (l Layout) Slot(id int) int {
	return id % l.SlotCount
}

// BaseAddress returns the physical address application id is loaded at and
// starts executing from.
func (l Layout) BaseAddress(id int) uintptr {
	return l.AppBase + uintptr(l.Slot(id))*l.SlotSize
}

// slotArea returns the range covered by all slots.
func (l Layout) slotArea() (start, end uintptr) {
	return l.AppBase, l.AppBase + uintptr(l.SlotCount)*l.SlotSize
}

// stackArea returns the range covered by the stack pool.
func (l Layout) stackArea() (start, end uintptr) {
	return l.StackBase, l.StackBase + uintptr(l.SlotCount)*(l.KernelStackSize+l.UserStackSize)
}

// Validate checks the layout for configuration errors.
func (l Layout) Validate() *kernel.Error {
	if l.SlotCount < 1 || l.SlotCount > config.MaxApps {
		return errBadSlotCount
	}

	if l.KernelStackSize < trap.ContextSize {
		return errContextTooBig
	}

	if !mem.PageAligned(l.AppBase) || !mem.PageAligned(l.StackBase) {
		return errUnalignedArea
	}
	for _, size := range []uintptr{l.SlotSize, l.KernelStackSize, l.UserStackSize} {
		if size == 0 || !mem.Size(size).PageAligned() {
			return errUnalignedArea
		}
	}

	slotStart, slotEnd := l.slotArea()
	stackStart, stackEnd := l.stackArea()
	if stackStart < slotEnd && slotStart < stackEnd {
		return errStackOverlap
	}

	return nil
}
