// Package rules implements the layered, gitignore-style rule engine: pattern
// compilation, prioritized rule sets, and path evaluation with provenance.
package rules

import "fmt"

// Level is the 1-8 precedence level a rule origin carries. Lower is weaker;
// within a rule set, rules are ordered by ascending Level and then by load
// order within a level.
type Level int

const (
	// LevelEcosystem holds embedded ecosystem templates (--with-ecosystem).
	LevelEcosystem Level = iota + 1
	// LevelIgnoreFile holds the root .gitignore / .ignore.
	LevelIgnoreFile
	// LevelConfigUse holds files named in config ignore.use.
	LevelConfigUse
	// LevelCLIIgnoreFile holds files named by --with-ignorefile.
	LevelCLIIgnoreFile
	// LevelConfigAlwaysExclude holds config ignore.always_exclude patterns.
	LevelConfigAlwaysExclude
	// LevelConfigAlwaysInclude holds config ignore.always_include patterns.
	LevelConfigAlwaysInclude
	// LevelCLIExclude holds --with-exclude patterns.
	LevelCLIExclude
	// LevelCLIInclude holds --with-include patterns.
	LevelCLIInclude
)

// String renders the level the way the provenance reporter labels it.
func (l Level) String() string {
	switch l {
	case LevelEcosystem:
		return "ecosystem"
	case LevelIgnoreFile:
		return "ignore-file"
	case LevelConfigUse:
		return "config ignore.use"
	case LevelCLIIgnoreFile:
		return "--with-ignorefile"
	case LevelConfigAlwaysExclude:
		return "config always_exclude"
	case LevelConfigAlwaysInclude:
		return "config always_include"
	case LevelCLIExclude:
		return "--with-exclude"
	case LevelCLIInclude:
		return "--with-include"
	default:
		return "unknown"
	}
}

// OriginKind tags the concrete shape of an Origin.
type OriginKind int

const (
	OriginEcosystem OriginKind = iota
	OriginIgnoreFile
	OriginConfigUse
	OriginCLIIgnoreFile
	OriginConfigAlwaysExclude
	OriginConfigAlwaysInclude
	OriginCLIExclude
	OriginCLIInclude
)

// Origin identifies where a rule came from, for provenance reporting.
type Origin struct {
	Kind  OriginKind
	Level Level

	// Name is the ecosystem name, for OriginEcosystem.
	Name string

	// Path is the source file path, for file-backed origins.
	Path string

	// Line is the 1-based line number within Path, for file-backed origins.
	Line int

	// Index is the 0-based position within a flag/config-list origin.
	Index int
}

// Label renders the origin as "<file>:<line>" for
// file-based rules, or the flag/config name otherwise.
func (o Origin) Label() string {
	switch o.Kind {
	case OriginEcosystem:
		return fmt.Sprintf("ecosystem:%s", o.Name)
	case OriginIgnoreFile, OriginConfigUse, OriginCLIIgnoreFile:
		return fmt.Sprintf("%s:%d", o.Path, o.Line)
	case OriginConfigAlwaysExclude:
		return "config always_exclude"
	case OriginConfigAlwaysInclude:
		return "config always_include"
	case OriginCLIExclude:
		return "--with-exclude"
	case OriginCLIInclude:
		return "--with-include"
	default:
		return "unknown"
	}
}
