// Package pipeline wires the rule engine and walker together: the single
// place "raptar archive" and "raptar list" both call to go from resolved
// flags to an ordered walk.Entry stream. Data flows in one direction,
// from rule sources through a composed matcher into a walker.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/scriptedworld/raptar/internal/cliargs"
	"github.com/scriptedworld/raptar/internal/ignorefile"
	"github.com/scriptedworld/raptar/internal/rules"
	"github.com/scriptedworld/raptar/internal/walk"
)

// Result is everything downstream commands need: the entry stream, the
// rule set used to produce it (for the provenance reporter), any
// per-path errors encountered along the way, and any nested ignore files
// discovered below the root (reported, never auto-applied).
type Result struct {
	RuleSet *rules.RuleSet
	Entries []walk.Entry
	Skipped []walk.SkippedPath
	Nested  []ignorefile.NestedIgnoreFile
}

// Run loads rule sources, compiles them, and walks root, in one call.
// observer, if non-nil, receives every path the walker evaluates (see
// walk.Options.Observer) — pass a provenance.Reporter's Observe method for
// verbose mode.
func Run(root string, flags cliargs.Flags, log zerolog.Logger, observer func(string, bool, rules.Verdict)) (Result, error) {
	inputs, err := cliargs.BuildSourceInputs(flags)
	if err != nil {
		return Result{}, err
	}

	raw := rules.LoadSources(inputs)
	compiled := rules.CompileAll(raw, log)
	ruleSet := rules.NewRuleSet(compiled)

	w := walk.New(walk.Options{
		Root:        root,
		RuleSet:     ruleSet,
		Dereference: flags.Dereference,
		Logger:      log,
		Observer:    observer,
	})

	entries, skipped, err := w.Walk()
	if err != nil {
		return Result{}, err
	}

	nested, err := ignorefile.ScanNested(root, func(relPath string, isDir bool) bool {
		return ruleSet.Evaluate(relPath, isDir).Decision == rules.Exclude
	})
	if err != nil {
		log.Warn().Err(err).Msg("nested ignore-file scan failed, continuing without it")
		nested = nil
	}
	for _, n := range nested {
		log.Warn().Str("path", n.RelPath).Msg("nested ignore file found below root; it is reported but not auto-applied")
	}

	return Result{RuleSet: ruleSet, Entries: entries, Skipped: skipped, Nested: nested}, nil
}
