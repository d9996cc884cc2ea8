package main

import (
	"bytes"
	"fmt"
	"io"

	"rvos/kernel/image"
	"rvos/kernel/mem"
)

// packImage lays out apps as a flat image to be loaded at base: the
// application table immediately followed by the binaries.
func packImage(base uintptr, apps [][]byte) ([]byte, *image.Table, error) {
	blob, table, err := image.Pack(base, apps)
	if err != nil {
		return nil, nil, err
	}
	return blob, table, nil
}

// inspectImage parses a flat image as the kernel would if it were loaded at
// base and writes the application table to w.
func inspectImage(w io.Writer, blob []byte, base uintptr) (*image.Table, error) {
	pm := mem.NewSimulated()
	window, err := pm.Map(base, mem.Size(len(blob)))
	if err != nil {
		return nil, err
	}
	if err := window.CopyAt(base, blob); err != nil {
		return nil, err
	}

	table, err := image.Parse(pm, base)
	if err != nil {
		return nil, fmt.Errorf("not an application image: %w", err)
	}

	// Every application must be backed by the file.
	for id := 0; id < table.Count(); id++ {
		span, _ := table.Range(id)
		if !window.Contains(span.Start, mem.Size(span.Len())) {
			return nil, fmt.Errorf("app_%d [0x%x, 0x%x) lies outside the image", id, span.Start, span.End)
		}
	}

	var buf bytes.Buffer
	table.DumpTo(&buf)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, err
	}

	return table, nil
}
