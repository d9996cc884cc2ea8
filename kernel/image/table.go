// Package image reads the application table that the build step embeds into
// the kernel image.
//
// The table lives at the _num_app symbol and consists of little-endian
// 64-bit words: the application count N followed by N+1 addresses. Address i
// is the start of application i; address N is the end of the last
// application. An optional _app_names symbol holds N NUL-terminated names in
// the same order.
package image

import (
	"encoding/binary"
	"io"

	"rvos/kernel"
	"rvos/kernel/config"
	"rvos/kernel/kfmt"
	"rvos/kernel/mem"
)

// maxNameLen bounds the length of a single entry in the name table.
const maxNameLen = 255

var (
	errCountMismatch = &kernel.Error{Module: "image", Message: "application count does not match the boundary table length"}
	errTooManyApps   = &kernel.Error{Module: "image", Message: "application count exceeds the supported maximum"}
	errBoundsOrder   = &kernel.Error{Module: "image", Message: "application boundaries are not strictly increasing"}
	errNameTooLong   = &kernel.Error{Module: "image", Message: "application name is not NUL-terminated"}
	errNameCount     = &kernel.Error{Module: "image", Message: "name table does not match the application count"}
)

// Span is a half-open physical address range [Start, End).
type Span struct {
	Start, End uintptr
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() uintptr {
	return s.End - s.Start
}

// Table describes the applications embedded in the kernel image. It is
// read-only once constructed.
type Table struct {
	bounds []uintptr
	names  []string
}

// New builds a Table from a declared application count and its boundary
// array, which must hold count+1 strictly increasing addresses.
func New(count int, bounds []uintptr) (*Table, *kernel.Error) {
	switch {
	case count < 0 || len(bounds) != count+1:
		return nil, errCountMismatch
	case count > config.MaxApps:
		return nil, errTooManyApps
	}

	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return nil, errBoundsOrder
		}
	}

	t := &Table{bounds: make([]uintptr, len(bounds))}
	copy(t.bounds, bounds)
	return t, nil
}

// Parse reads the table located at physical address numAppAddr.
func Parse(pm mem.PhysicalMemory, numAppAddr uintptr) (*Table, *kernel.Error) {
	hdr, err := pm.Region(numAppAddr, mem.PointerSize)
	if err != nil {
		return nil, err
	}

	count := binary.LittleEndian.Uint64(hdr.Bytes())
	if count > config.MaxApps {
		return nil, errTooManyApps
	}

	raw, err := pm.Region(numAppAddr+uintptr(mem.PointerSize), mem.Size(count+1)*mem.PointerSize)
	if err != nil {
		return nil, err
	}

	bounds := make([]uintptr, count+1)
	for i := range bounds {
		bounds[i] = uintptr(binary.LittleEndian.Uint64(raw.Bytes()[i<<mem.PointerShift:]))
	}

	return New(int(count), bounds)
}

// ReadNames attaches the names stored at physical address namesAddr.
func (t *Table) ReadNames(pm mem.PhysicalMemory, namesAddr uintptr) *kernel.Error {
	names := make([]string, 0, t.Count())
	addr := namesAddr

	for id := 0; id < t.Count(); id++ {
		var name []byte
		for {
			ch, err := pm.Region(addr, 1)
			if err != nil {
				return err
			}
			addr++

			if ch.Bytes()[0] == 0 {
				break
			}
			if len(name) == maxNameLen {
				return errNameTooLong
			}
			name = append(name, ch.Bytes()[0])
		}
		names = append(names, string(name))
	}

	return t.SetNames(names)
}

// SetNames attaches one name per application.
func (t *Table) SetNames(names []string) *kernel.Error {
	if len(names) != t.Count() {
		return errNameCount
	}

	t.names = names
	return nil
}

// Count returns the number of embedded applications.
func (t *Table) Count() int {
	return len(t.bounds) - 1
}

// Range returns the location of application id inside the kernel image. The
// second result is false if id is out of range.
func (t *Table) Range(id int) (Span, bool) {
	if id < 0 || id >= t.Count() {
		return Span{}, false
	}

	return Span{Start: t.bounds[id], End: t.bounds[id+1]}, true
}

// Name returns the name of application id or an empty string if the table
// carries no names.
func (t *Table) Name(id int) string {
	if id < 0 || id >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// DumpTo writes a summary of the table to w.
func (t *Table) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "[kernel] num_app = %d\n", t.Count())
	for id := 0; id < t.Count(); id++ {
		kfmt.Fprintf(w, "[kernel] app_%d [0x%x, 0x%x)", id, t.bounds[id], t.bounds[id+1])
		if name := t.Name(id); name != "" {
			kfmt.Fprintf(w, " %s", name)
		}
		kfmt.Fprintf(w, "\n")
	}
}
