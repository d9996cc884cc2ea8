package mem

import "rvos/kernel"

var (
	errOutOfBounds    = &kernel.Error{Module: "mem", Message: "access outside of region bounds"}
	errAddrOverflow   = &kernel.Error{Module: "mem", Message: "address range wraps around the address space"}
	errUnbacked       = &kernel.Error{Module: "mem", Message: "address range is not backed by physical memory"}
	errOverlappingMap = &kernel.Error{Module: "mem", Message: "simulated memory window overlaps an existing window"}
)

// Region is a fixed-size byte buffer bound to a physical base address. All
// accesses are addressed physically and bounds-checked against the region.
type Region struct {
	base uintptr
	buf  []byte
}

// NewRegion binds backing to the physical address range starting at base.
func NewRegion(base uintptr, backing []byte) *Region {
	return &Region{base: base, buf: backing}
}

// Base returns the physical address of the first byte of the region.
func (r *Region) Base() uintptr { return r.base }

// End returns the physical address one past the last byte of the region.
func (r *Region) End() uintptr { return r.base + uintptr(len(r.buf)) }

// Size returns the region length.
func (r *Region) Size() Size { return Size(len(r.buf)) }

// Bytes returns the region contents.
func (r *Region) Bytes() []byte { return r.buf }

// Contains reports whether [addr, addr+size) lies within the region.
func (r *Region) Contains(addr uintptr, size Size) bool {
	end := addr + uintptr(size)
	return end >= addr && addr >= r.base && end <= r.End()
}

// Sub returns the region covering [addr, addr+size). The returned region
// shares its backing store with r.
func (r *Region) Sub(addr uintptr, size Size) (*Region, *kernel.Error) {
	if addr+uintptr(size) < addr {
		return nil, errAddrOverflow
	}
	if !r.Contains(addr, size) {
		return nil, errOutOfBounds
	}

	off := addr - r.base
	return &Region{base: addr, buf: r.buf[off : off+uintptr(size) : off+uintptr(size)]}, nil
}

// CopyAt copies src into the region starting at physical address addr.
func (r *Region) CopyAt(addr uintptr, src []byte) *kernel.Error {
	dst, err := r.Sub(addr, Size(len(src)))
	if err != nil {
		return err
	}

	copy(dst.buf, src)
	return nil
}

// Zero clears the whole region.
func (r *Region) Zero() {
	Memset(r.buf, 0)
}
