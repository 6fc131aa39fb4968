// Package ignorefile is the narrow on-disk reader collaborator for ignore
// files and nested-file discovery (deliberately excluded from
// the core rule engine, kept here as a thin, data-in/data-out boundary).
package ignorefile

import (
	"os"
	"path/filepath"
	"sort"
)

// Names are the ignore-file basenames the loader recognizes at the
// archive root, tried in this order.
var Names = []string{".gitignore", ".ignore"}

// Read returns the raw text of path, or ("", false, nil) if it does not
// exist. Any other stat/read error is returned.
func Read(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// NestedIgnoreFile is a .gitignore/.ignore file found below the archive
// root during the walk. These are reported as warnings and never
// auto-applied: only the root ignore file and files named via
// --with-ignorefile contribute rules.
type NestedIgnoreFile struct {
	RelPath string
	Name    string
}

// ScanNested walks root looking for ignore files below the top level,
// returning them sorted by path for deterministic warning output. It does
// not descend into directories the caller has already excluded; callers
// pass the same skip set the walker itself prunes.
func ScanNested(root string, skip func(relPath string, isDir bool) bool) ([]NestedIgnoreFile, error) {
	var found []NestedIgnoreFile

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if skip != nil && skip(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		base := filepath.Base(rel)
		for _, n := range Names {
			if base == n && filepath.Dir(rel) != "." {
				found = append(found, NestedIgnoreFile{RelPath: rel, Name: base})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].RelPath < found[j].RelPath })
	return found, nil
}
