package config

const (
	// MaxApps is the maximum number of applications the image table may
	// describe.
	MaxApps = 16

	// AppBaseAddress is the physical address of the first application
	// slot. Applications are linked to run at this address (plus
	// slot*AppSizeLimit in the preloaded layout).
	AppBaseAddress = uintptr(0x80400000)

	// AppSizeLimit is the size of a single application slot.
	AppSizeLimit = uintptr(0x20000)

	// KernelStackSize is the size of each per-slot kernel stack.
	KernelStackSize = uintptr(4096 * 2)

	// UserStackSize is the size of each per-slot user stack.
	UserStackSize = uintptr(4096 * 2)

	// StackPoolBase is the physical address of the stack pool. The pool
	// holds MaxApps (kernel, user) stack pairs and ends right below
	// AppBaseAddress.
	StackPoolBase = AppBaseAddress - MaxApps*(KernelStackSize+UserStackSize)
)
