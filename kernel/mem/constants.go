package mem

const (
	// PointerShift is equal to log2(unsafe.Sizeof(uintptr)). The pointer
	// size for rv64 is (1 << PointerShift).
	PointerShift = 3

	// PointerSize is the size of a machine word in bytes.
	PointerSize = Size(1 << PointerShift)

	// PageShift is equal to log2(PageSize).
	PageShift = 12

	// PageSize defines the system's page size in bytes.
	PageSize = Size(1 << PageShift)
)

// PageAligned reports whether addr sits on a page boundary.
func PageAligned(addr uintptr) bool {
	return addr&uintptr(PageSize-1) == 0
}
