// Package projectroot finds the nearest project root above a directory and,
// for a Go-module root, extracts the module path to use as a default
// library name -- sparing a caller of "cache build" from typing --gem for a
// library that already declares its own name.
//
// Grounded on inspector/repository/detector.go's Detector: the same
// upward-marker-walk shape, narrowed from that type's ten marker files and
// five language extractors down to the two markers relevant to a Ruby
// signature cache -- Gemfile (the gem itself) and go.mod (a polyglot repo
// that vendors Ruby source alongside Go tooling, e.g. a build-script gem
// living next to the Go binary that drives it).
package projectroot

import (
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// markers are checked in order at each directory level; the first match wins.
var markers = []string{"go.mod", "Gemfile"}

// Find walks up from startDir looking for the nearest directory containing
// one of markers, and returns that directory plus a default library name
// derived from it: the module path for a go.mod root (via modfile.Parse),
// or the directory's base name for a Gemfile root. ok is false if no marker
// is found before reaching the filesystem root.
func Find(startDir string) (root string, name string, ok bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", false
	}

	for {
		for _, marker := range markers {
			path := filepath.Join(dir, marker)
			if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
				return dir, nameFor(marker, path, dir), true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", false
		}
		dir = parent
	}
}

func nameFor(marker, path, dir string) string {
	if marker == "go.mod" {
		if content, err := os.ReadFile(path); err == nil {
			if mod, err := modfile.Parse(path, content, nil); err == nil && mod.Module != nil {
				return mod.Module.Mod.Path
			}
		}
	}
	return filepath.Base(dir)
}
