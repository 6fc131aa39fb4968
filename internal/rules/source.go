package rules

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/rs/zerolog"
)

// RawSource is one (priority, origin template, raw text) triple yielded by
// the rule source loader, before the text has been split into
// lines and compiled. Base is the directory, relative to the archive root,
// patterns in this source are anchored against.
type RawSource struct {
	Level Level
	Kind  OriginKind
	Name  string // ecosystem name, for OriginEcosystem
	Path  string // source file path, for file-backed origins
	Base  string
	Text  string
}

// Ecosystem is one embedded gitignore-syntax template, keyed by name.
type Ecosystem struct {
	Name string
	Text string
}

// FileSource is one on-disk ignore file already read into memory (the
// "on-disk reader for ignore files" collaborator supplies this; see
// internal/ignorefile).
type FileSource struct {
	Path string
	Text string
	Base string
}

// SourceInputs collects everything the rule source loader needs: the
// ecosystem templates, file-backed sources, and config/CLI pattern lists
// for all 8 precedence levels. It has no dependency on the CLI or config
// packages so the engine stays embeddable.
type SourceInputs struct {
	// Ecosystems are the --with-ecosystem NAME values, in CLI order, paired
	// with the matching embedded template text.
	Ecosystems []Ecosystem

	// RootIgnoreFiles are the root .gitignore / .ignore files, in that
	// order, when enabled.
	RootIgnoreFiles []FileSource

	// ConfigUseFiles are ignore.use config entries, in config order.
	ConfigUseFiles []FileSource

	// CLIIgnoreFiles are --with-ignorefile PATH files, in CLI order.
	CLIIgnoreFiles []FileSource

	// WithoutIgnorefileNames suppresses level 2-4 sources whose basename
	// matches (--without-ignorefile NAME).
	WithoutIgnorefileNames []string

	// WithoutIgnorefiles suppresses all file-derived sources (levels 2-4).
	WithoutIgnorefiles bool

	// ConfigAlwaysExclude / ConfigAlwaysInclude are config ignore.* pattern
	// lists, suppressed by WithoutExcludeAlways / WithoutIncludeAlways.
	ConfigAlwaysExclude []string
	ConfigAlwaysInclude []string
	WithoutExcludeAlways bool
	WithoutIncludeAlways bool

	// CLIExclude / CLIInclude are --with-exclude / --with-include patterns,
	// in the order they appeared on the command line.
	CLIExclude []string
	CLIInclude []string
}

// LoadSources runs the rule-source loader pipeline, returning the ordered raw
// sources (levels 1-8) that Compile turns into rules.
func LoadSources(in SourceInputs) []RawSource {
	var out []RawSource

	for _, eco := range in.Ecosystems {
		out = append(out, RawSource{Level: LevelEcosystem, Kind: OriginEcosystem, Name: eco.Name, Text: eco.Text, Base: ""})
	}

	if !in.WithoutIgnorefiles {
		for _, f := range in.RootIgnoreFiles {
			if suppressed(f.Path, in.WithoutIgnorefileNames) {
				continue
			}
			out = append(out, RawSource{Level: LevelIgnoreFile, Kind: OriginIgnoreFile, Path: f.Path, Text: f.Text, Base: f.Base})
		}
		for _, f := range in.ConfigUseFiles {
			if suppressed(f.Path, in.WithoutIgnorefileNames) {
				continue
			}
			out = append(out, RawSource{Level: LevelConfigUse, Kind: OriginConfigUse, Path: f.Path, Text: f.Text, Base: f.Base})
		}
		for _, f := range in.CLIIgnoreFiles {
			if suppressed(f.Path, in.WithoutIgnorefileNames) {
				continue
			}
			out = append(out, RawSource{Level: LevelCLIIgnoreFile, Kind: OriginCLIIgnoreFile, Path: f.Path, Text: f.Text, Base: f.Base})
		}
	}

	if !in.WithoutExcludeAlways {
		out = append(out, RawSource{Level: LevelConfigAlwaysExclude, Kind: OriginConfigAlwaysExclude, Text: strings.Join(in.ConfigAlwaysExclude, "\n")})
	}
	if !in.WithoutIncludeAlways {
		out = append(out, RawSource{Level: LevelConfigAlwaysInclude, Kind: OriginConfigAlwaysInclude, Text: strings.Join(in.ConfigAlwaysInclude, "\n")})
	}

	out = append(out, RawSource{Level: LevelCLIExclude, Kind: OriginCLIExclude, Text: strings.Join(in.CLIExclude, "\n")})
	out = append(out, RawSource{Level: LevelCLIInclude, Kind: OriginCLIInclude, Text: strings.Join(in.CLIInclude, "\n")})

	return out
}

func suppressed(path string, names []string) bool {
	base := baseName(path)
	for _, n := range names {
		if n == base {
			return true
		}
	}
	return false
}

func baseName(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// Line is one kept (non-blank, non-comment) rule line, together with its
// 1-based physical line number in the source text it came from — counting
// every line the scanner sees, including the blank/comment lines dropped
// around it, so file-backed provenance reports where the pattern actually
// sits in the file rather than its position in the filtered-down list.
type Line struct {
	Text   string
	Number int
}

// Lines splits raw source text into rule lines: a UTF-8 BOM
// at the head is stripped, both LF and CRLF are accepted, blank lines and
// comment lines (first non-whitespace char '#') are dropped, and trailing
// spaces are stripped unless escaped with a backslash.
func Lines(text string) []Line {
	b := []byte(text)
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})

	var out []Line
	scanner := bufio.NewScanner(bytes.NewReader(b))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		line = stripTrailingSpaces(line)
		if line == "" {
			continue
		}
		out = append(out, Line{Text: line, Number: lineNo})
	}
	return out
}

// stripTrailingSpaces removes unescaped trailing spaces: stripping stops at
// the first space (from the end) that is escaped by a backslash, so that
// space and everything before it are kept.
func stripTrailingSpaces(line string) string {
	end := len(line)
	for end > 0 && line[end-1] == ' ' {
		// An odd number of backslashes right before this space escapes it.
		backslashes := 0
		for p := end - 2; p >= 0 && line[p] == '\\'; p-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			break
		}
		end--
	}
	return line[:end]
}

// CompileAll compiles every line from every raw source into rules, logging
// and dropping malformed patterns ("pattern error") rather
// than failing the run.
func CompileAll(sources []RawSource, log zerolog.Logger) []*Rule {
	var out []*Rule

	for _, src := range sources {
		lines := Lines(src.Text)
		for li, ln := range lines {
			origin := Origin{Kind: src.Kind, Level: src.Level, Name: src.Name, Path: src.Path}
			origin.Line = fileLine(src, ln.Number)
			origin.Index = indexWithin(src, li)

			text := ln.Text
			if (src.Kind == OriginCLIInclude || src.Kind == OriginConfigAlwaysInclude) && !strings.HasPrefix(text, "!") {
				text = "!" + text
			}
			rule, err := Compile(text, src.Base, origin)
			if err != nil {
				log.Warn().
					Str("pattern", ln.Text).
					Str("origin", origin.Label()).
					Err(err).
					Msg("dropping malformed ignore pattern")
				continue
			}
			out = append(out, rule)
		}
	}

	return out
}

// fileLine reports the 1-based physical source line number for file-backed
// origins, and 0 for flag/config-list origins (where Index is used instead).
func fileLine(src RawSource, lineNumber int) int {
	switch src.Kind {
	case OriginIgnoreFile, OriginConfigUse, OriginCLIIgnoreFile:
		return lineNumber
	default:
		return 0
	}
}

// indexWithin reports the 0-based position of a CLI/config-list pattern
// within its flag or config list.
func indexWithin(src RawSource, lineIdx int) int {
	switch src.Kind {
	case OriginConfigAlwaysExclude, OriginConfigAlwaysInclude, OriginCLIExclude, OriginCLIInclude:
		return lineIdx
	default:
		return 0
	}
}
