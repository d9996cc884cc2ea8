package cpu

// FenceI synchronizes the instruction and data streams of the current hart.
// A subsequent instruction fetch is guaranteed to observe every store that
// completed before the fence (Zifencei extension).
func FenceI()

// Halt stops instruction execution. Halt never returns.
func Halt()

// ReadTime returns the value of the time CSR.
func ReadTime() uint64

// ReadSstatus returns the value of the sstatus CSR.
func ReadSstatus() Sstatus
