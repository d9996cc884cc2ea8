package sbi

// sbiCall issues an ecall into the firmware with a7=ext and a6=fid and
// returns the (a0, a1) pair.
func sbiCall(ext, fid, arg0, arg1, arg2 uintptr) (errno, value uintptr)
