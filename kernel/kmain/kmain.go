// Package kmain contains the kernel entry point invoked by the boot code.
package kmain

import (
	"rvos/kernel"
	"rvos/kernel/batch"
	"rvos/kernel/hal"
	"rvos/kernel/image"
	"rvos/kernel/kfmt"
	"rvos/kernel/loader"
	"rvos/kernel/mem"
)

// Slot layouts selectable at link time with
// -ldflags "-X rvos/kernel/kmain.layoutMode=preloaded".
const (
	layoutSingle    = "single"
	layoutPreloaded = "preloaded"
)

var (
	layoutMode = layoutSingle

	// physMem, detectHardwareFn and panicFn are mocked by tests.
	physMem          mem.PhysicalMemory = mem.Direct{}
	detectHardwareFn                    = hal.DetectHardware
	panicFn                             = kfmt.Panic

	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
)

// Kmain is the only Go symbol that is visible (exported) from the boot code.
// The boot code sets up the boot stack and passes the physical addresses of
// the _num_app and _app_names symbols emitted by the application linker;
// appNamesAddr may be 0 if the image carries no names.
//
// Kmain is not expected to return: once the run manager takes over, control
// only comes back to the kernel through traps and the machine powers off
// after the last application.
//
//go:noinline
func Kmain(numAppAddr, appNamesAddr uintptr) {
	detectHardwareFn()
	kfmt.Printf("[kernel] Hello, world!\n")

	if err := boot(numAppAddr, appNamesAddr); err != nil {
		panicFn(err)
		return
	}

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating it as dead-code and eliminating it.
	panicFn(errKmainReturned)
}

func boot(numAppAddr, appNamesAddr uintptr) *kernel.Error {
	table, err := image.Parse(physMem, numAppAddr)
	if err != nil {
		return err
	}

	if appNamesAddr != 0 {
		if err = table.ReadNames(physMem, appNamesAddr); err != nil {
			return err
		}
	}

	if _, err = batch.Init(physMem, table, selectLayout()); err != nil {
		return err
	}

	return batch.Run()
}

func selectLayout() loader.Layout {
	if layoutMode == layoutPreloaded {
		return loader.PreloadedLayout()
	}
	return loader.DefaultLayout()
}
