// Package cliargs translates the raw flag values "raptar archive"/"raptar
// list" accept into the rule engine's SourceInputs record (the
// CLI-originated sources), plus the small set of archive/walk options that
// live alongside them on the command line. It is the "CLI argument parser"
// external collaborator: narrow, and otherwise opinion-free.
package cliargs

import (
	"os"
	"path/filepath"

	"github.com/scriptedworld/raptar/internal/ecosystem"
	"github.com/scriptedworld/raptar/internal/ignorefile"
	"github.com/scriptedworld/raptar/internal/rules"
)

// Flags holds the raw values read off the archive/list command's flag set.
type Flags struct {
	Root string

	WithEcosystem    []string
	WithIgnorefile   []string
	WithoutIgnorefileNames []string
	WithoutIgnorefiles     bool
	WithoutExcludeAlways   bool
	WithoutIncludeAlways   bool
	WithExclude []string
	WithInclude []string

	ConfigUseFiles      []string
	ConfigAlwaysExclude []string
	ConfigAlwaysInclude []string

	Dereference bool
}

// BuildSourceInputs resolves Flags into rules.SourceInputs: it reads root
// ignore files and every named file-backed source off disk, and resolves
// ecosystem names against the embedded template set.
func BuildSourceInputs(f Flags) (rules.SourceInputs, error) {
	in := rules.SourceInputs{
		WithoutIgnorefileNames: f.WithoutIgnorefileNames,
		WithoutIgnorefiles:     f.WithoutIgnorefiles,
		WithoutExcludeAlways:   f.WithoutExcludeAlways,
		WithoutIncludeAlways:   f.WithoutIncludeAlways,
		ConfigAlwaysExclude:    f.ConfigAlwaysExclude,
		ConfigAlwaysInclude:    f.ConfigAlwaysInclude,
		CLIExclude:             f.WithExclude,
		CLIInclude:             f.WithInclude,
	}

	for _, name := range f.WithEcosystem {
		text, err := ecosystem.Lookup(name)
		if err != nil {
			return rules.SourceInputs{}, err
		}
		in.Ecosystems = append(in.Ecosystems, rules.Ecosystem{Name: name, Text: text})
	}

	for _, name := range ignorefile.Names {
		path := filepath.Join(f.Root, name)
		text, ok, err := ignorefile.Read(path)
		if err != nil {
			return rules.SourceInputs{}, err
		}
		if !ok {
			continue
		}
		in.RootIgnoreFiles = append(in.RootIgnoreFiles, rules.FileSource{Path: path, Text: text, Base: ""})
	}

	for _, path := range f.ConfigUseFiles {
		fs, err := readFileSource(f.Root, path)
		if err != nil {
			return rules.SourceInputs{}, err
		}
		in.ConfigUseFiles = append(in.ConfigUseFiles, fs)
	}

	for _, path := range f.WithIgnorefile {
		fs, err := readFileSource(f.Root, path)
		if err != nil {
			return rules.SourceInputs{}, err
		}
		in.CLIIgnoreFiles = append(in.CLIIgnoreFiles, fs)
	}

	return in, nil
}

// readFileSource reads path's contents and reports its directory, relative
// to root, as the rule base patterns in that file are anchored against.
func readFileSource(root, path string) (rules.FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.FileSource{}, err
	}

	base := ""
	if abs, err := filepath.Abs(path); err == nil {
		if absRoot, err := filepath.Abs(root); err == nil {
			if rel, err := filepath.Rel(absRoot, filepath.Dir(abs)); err == nil && rel != "." {
				base = filepath.ToSlash(rel)
			}
		}
	}

	return rules.FileSource{Path: path, Text: string(data), Base: base}, nil
}
