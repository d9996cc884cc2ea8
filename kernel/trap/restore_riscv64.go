package trap

// Restore loads the context stored at cxAddr into the hart and returns to
// the privilege level recorded in its sstatus. The kernel stack pointer,
// which sits right above the context, is parked in sscratch so that the trap
// entry routine can switch back to it. Restore never returns.
func Restore(cxAddr uintptr)
