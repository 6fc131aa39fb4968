// Package ecosystem provides the embedded, build-time set of named
// gitignore-syntax templates (data, not code).
package ecosystem

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Templates contains the embedded ecosystem template files.
//
//go:embed templates/*.gitignore
var Templates embed.FS

// ErrUnknownEcosystem is returned by Lookup for a name with no embedded
// template ("unknown ecosystem name" is a configuration error).
var ErrUnknownEcosystem = fmt.Errorf("unknown ecosystem")

// Lookup returns the raw gitignore-syntax text for the named ecosystem
// (case-insensitive, e.g. "go", "Node", "PYTHON").
func Lookup(name string) (string, error) {
	data, err := Templates.ReadFile(fmt.Sprintf("templates/%s.gitignore", strings.ToLower(name)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownEcosystem, name)
	}
	return string(data), nil
}

// Names returns the sorted list of embedded ecosystem names.
func Names() []string {
	var names []string
	_ = fs.WalkDir(Templates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := strings.TrimSuffix(d.Name(), ".gitignore")
		names = append(names, name)
		return nil
	})
	sort.Strings(names)
	return names
}
