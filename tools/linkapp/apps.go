package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// app is an application binary to embed.
type app struct {
	Name string
	Path string
}

// appName strips the directory and every extension from path.
func appName(path string) string {
	name := filepath.Base(path)
	if dot := strings.IndexByte(name, '.'); dot > 0 {
		name = name[:dot]
	}
	return name
}

// collectApps expands patterns and returns the matching binaries sorted by
// name. Application ids follow this order.
func collectApps(patterns []string) ([]app, error) {
	seen := make(map[string]bool)
	var apps []app

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", pattern)
		}

		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if info.IsDir() || seen[path] {
				continue
			}
			seen[path] = true
			apps = append(apps, app{Name: appName(path), Path: path})
		}
	}

	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	for i := 1; i < len(apps); i++ {
		if apps[i].Name == apps[i-1].Name {
			return nil, fmt.Errorf("duplicate application name %q (%s, %s)", apps[i].Name, apps[i-1].Path, apps[i].Path)
		}
	}

	return apps, nil
}

// readApps loads the contents of every application.
func readApps(apps []app) ([][]byte, error) {
	blobs := make([][]byte, 0, len(apps))
	for _, a := range apps {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, data)
	}
	return blobs, nil
}
