// Package loader places embedded applications into their execution slots and
// manages the per-slot kernel and user stacks.
package loader

import (
	"rvos/kernel"
	"rvos/kernel/cpu"
	"rvos/kernel/image"
	"rvos/kernel/kfmt"
	"rvos/kernel/mem"
)

var (
	// fenceIFn is mocked by tests.
	fenceIFn = cpu.FenceI

	// ErrNoMoreApps is returned by Load when asked for an application past
	// the end of the table. It marks the end of the batch, not a failure.
	ErrNoMoreApps = &kernel.Error{Module: "loader", Message: "all applications have been loaded"}

	errAppTooLarge        = &kernel.Error{Module: "loader", Message: "application image does not fit in its slot"}
	errImageOverlapsSlot  = &kernel.Error{Module: "loader", Message: "application image overlaps the slot area"}
	errImageOverlapsStack = &kernel.Error{Module: "loader", Message: "application image overlaps the stack pool"}
	errNotEnoughSlots     = &kernel.Error{Module: "loader", Message: "more applications than slots"}
)

// Loader copies applications from the embedded image into their slots.
type Loader struct {
	pm     mem.PhysicalMemory
	table  *image.Table
	layout Layout
}

// New returns a Loader for table. Layout errors and applications that cannot
// be placed are reported here, at boot, rather than when the application's
// turn comes.
func New(pm mem.PhysicalMemory, table *image.Table, layout Layout) (*Loader, *kernel.Error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	l := &Loader{pm: pm, table: table, layout: layout}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate checks that every application fits in its slot and that no
// application image lies inside the slot area or the stack pool where
// loading or stack setup would overwrite it.
func (l *Loader) Validate() *kernel.Error {
	slotStart, slotEnd := l.layout.slotArea()
	stackStart, stackEnd := l.layout.stackArea()
	for id := 0; id < l.table.Count(); id++ {
		span, _ := l.table.Range(id)
		if span.Len() > l.layout.SlotSize {
			return errAppTooLarge
		}
		if span.Start < slotEnd && slotStart < span.End {
			return errImageOverlapsSlot
		}
		if span.Start < stackEnd && stackStart < span.End {
			return errImageOverlapsStack
		}
	}

	return nil
}

// Layout returns the memory layout used by the loader.
func (l *Loader) Layout() Layout {
	return l.layout
}

// Count returns the number of applications in the image.
func (l *Loader) Count() int {
	return l.table.Count()
}

// BaseAddress returns the entry point of application id.
func (l *Loader) BaseAddress(id int) uintptr {
	return l.layout.BaseAddress(id)
}

// SlotRegion returns the memory backing the slot application id runs from.
func (l *Loader) SlotRegion(id int) (*mem.Region, *kernel.Error) {
	return l.pm.Region(l.layout.BaseAddress(id), mem.Size(l.layout.SlotSize))
}

// Load clears the slot of application id, copies the application into it
// and fences the instruction stream so that the copied code can be executed.
// Load returns ErrNoMoreApps if id is past the last application.
func (l *Loader) Load(id int) *kernel.Error {
	if id < 0 || id >= l.table.Count() {
		return ErrNoMoreApps
	}

	kfmt.Printf("[kernel] Loading app_%d\n", id)
	if err := l.copyIn(id); err != nil {
		return err
	}

	fenceIFn()
	return nil
}

// LoadAll copies every application into its own slot and issues a single
// fence once all of them are in place.
func (l *Loader) LoadAll() *kernel.Error {
	if l.table.Count() > l.layout.SlotCount {
		return errNotEnoughSlots
	}

	for id := 0; id < l.table.Count(); id++ {
		kfmt.Printf("[kernel] Loading app_%d\n", id)
		if err := l.copyIn(id); err != nil {
			return err
		}
	}

	fenceIFn()
	return nil
}

func (l *Loader) copyIn(id int) *kernel.Error {
	span, _ := l.table.Range(id)
	if span.Len() > l.layout.SlotSize {
		return errAppTooLarge
	}

	slot, err := l.SlotRegion(id)
	if err != nil {
		return err
	}

	src, err := l.pm.Region(span.Start, mem.Size(span.Len()))
	if err != nil {
		return err
	}

	slot.Zero()
	return slot.CopyAt(slot.Base(), src.Bytes())
}
