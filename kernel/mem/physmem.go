package mem

import (
	"unsafe"

	"rvos/kernel"
)

// PhysicalMemory hands out Regions for physical address ranges.
type PhysicalMemory interface {
	// Region returns a Region covering [base, base+size).
	Region(base uintptr, size Size) (*Region, *kernel.Error)
}

// Direct is the PhysicalMemory used on bare metal where physical addresses
// are directly accessible. It is the only place where raw addresses are
// turned into Go slices.
type Direct struct{}

// Region overlays a slice on top of [base, base+size).
func (Direct) Region(base uintptr, size Size) (*Region, *kernel.Error) {
	if base+uintptr(size) < base {
		return nil, errAddrOverflow
	}
	if size == 0 {
		return &Region{base: base}, nil
	}

	return &Region{
		base: base,
		buf:  unsafe.Slice((*byte)(unsafe.Pointer(base)), int(size)),
	}, nil
}

// Simulated is a PhysicalMemory backed by ordinary Go memory. It consists of
// a set of non-overlapping windows, each bound to a physical base address,
// and is used to run the kernel core on a development host.
type Simulated struct {
	windows []*Region
}

// NewSimulated returns an empty simulated physical address space.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Map backs [base, base+size) with zeroed memory and returns the window.
func (s *Simulated) Map(base uintptr, size Size) (*Region, *kernel.Error) {
	end := base + uintptr(size)
	if end < base {
		return nil, errAddrOverflow
	}

	for _, w := range s.windows {
		if base < w.End() && w.Base() < end {
			return nil, errOverlappingMap
		}
	}

	w := NewRegion(base, make([]byte, size))
	s.windows = append(s.windows, w)
	return w, nil
}

// Region returns the part of a single window covering [base, base+size).
func (s *Simulated) Region(base uintptr, size Size) (*Region, *kernel.Error) {
	if base+uintptr(size) < base {
		return nil, errAddrOverflow
	}

	for _, w := range s.windows {
		if w.Contains(base, size) {
			return w.Sub(base, size)
		}
	}

	return nil, errUnbacked
}
