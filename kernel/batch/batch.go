package batch

import (
	"rvos/kernel"
	"rvos/kernel/image"
	"rvos/kernel/loader"
	"rvos/kernel/mem"
	"rvos/kernel/trap"
)

var (
	manager *Manager

	errNotInitialized = &kernel.Error{Module: "batch", Message: "run manager not initialized"}
)

// Init builds the run manager for table using layout and registers it with
// the trap layer. Configuration errors are returned rather than deferred to
// the first dispatch.
func Init(pm mem.PhysicalMemory, table *image.Table, layout loader.Layout) (*Manager, *kernel.Error) {
	l, err := loader.New(pm, table, layout)
	if err != nil {
		return nil, err
	}

	stacks, err := loader.NewStackPool(pm, layout)
	if err != nil {
		return nil, err
	}

	manager = NewManager(table, l, stacks)
	trap.Install(manager)
	return manager, nil
}

// Run prints the application table and starts the batch set up by Init.
func Run() *kernel.Error {
	if manager == nil {
		return errNotInitialized
	}

	manager.PrintAppInfo()
	return manager.Start()
}
