package main

import (
	"fmt"
	"strings"
)

// linkBase returns the address application id must be linked at when every
// application owns a slot.
func linkBase(layout LayoutConfig, id int) uint64 {
	return layout.AppBase + layout.SlotSize*uint64(id)
}

// relocateLinkerScript rewrites every occurrence of the default application
// base address in script to the link base of application id.
func relocateLinkerScript(script string, layout LayoutConfig, id int) (string, error) {
	from := fmt.Sprintf("%#x", layout.AppBase)
	if !strings.Contains(script, from) {
		return "", fmt.Errorf("linker script does not reference the application base %s", from)
	}

	return strings.ReplaceAll(script, from, fmt.Sprintf("%#x", linkBase(layout, id))), nil
}
