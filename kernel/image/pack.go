package image

import (
	"encoding/binary"

	"rvos/kernel"
	"rvos/kernel/mem"
)

var errEmptyApp = &kernel.Error{Module: "image", Message: "application binary is empty"}

// HeaderSize returns the size of a table describing count applications.
func HeaderSize(count int) uintptr {
	return uintptr(count+2) << mem.PointerShift
}

// Pack lays out a flat image meant to be placed at physical address base:
// the table header immediately followed by the application binaries. It
// returns the image bytes and the table that Parse will recover from them.
func Pack(base uintptr, apps [][]byte) ([]byte, *Table, *kernel.Error) {
	bounds := make([]uintptr, len(apps)+1)
	bounds[0] = base + HeaderSize(len(apps))
	for i, app := range apps {
		if len(app) == 0 {
			return nil, nil, errEmptyApp
		}
		bounds[i+1] = bounds[i] + uintptr(len(app))
	}

	table, err := New(len(apps), bounds)
	if err != nil {
		return nil, nil, err
	}

	blob := make([]byte, bounds[len(apps)]-base)
	binary.LittleEndian.PutUint64(blob, uint64(len(apps)))
	for i, b := range bounds {
		binary.LittleEndian.PutUint64(blob[uintptr(i+1)<<mem.PointerShift:], uint64(b))
	}
	for i, app := range apps {
		copy(blob[bounds[i]-base:], app)
	}

	return blob, table, nil
}
