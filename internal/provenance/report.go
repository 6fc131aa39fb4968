// Package provenance implements the verbose reporter: it
// attributes every include/exclude decision to the rule (or default) that
// produced it, and renders a human-readable report.
package provenance

import (
	"fmt"
	"io"
	"sort"

	"github.com/scriptedworld/raptar/internal/rules"
)

// decision is one observed path's evaluation outcome.
type decision struct {
	relPath string
	verdict rules.Verdict
}

// SourceSummary is one loaded rule source, with how many rules it
// contributed, for the "sources actually loaded" section of the report.
type SourceSummary struct {
	Level rules.Level
	Label string
	Count int
}

// Reporter aggregates decisions as the walk progresses and renders the
// verbose report. Its Observe method has the exact
// shape of walk.Options.Observer, so it can be wired in directly.
type Reporter struct {
	Verbose bool

	sources  []SourceSummary
	excluded []decision
	included []decision // entries that matched a negated rule
}

// NewReporter returns a Reporter. Observe still accumulates decisions when
// Verbose is false, since callers may want LoadSummary/Render output later
// in the same run; Render itself is a no-op unless Verbose is set.
func NewReporter(verbose bool) *Reporter {
	return &Reporter{Verbose: verbose}
}

// LoadSummary records the rule sources that were actually loaded, in
// priority order, for the report header.
func (r *Reporter) LoadSummary(rs *rules.RuleSet) {
	counts := map[rules.Level]int{}
	labels := map[rules.Level]string{}
	for _, rule := range rs.Rules() {
		counts[rule.Origin.Level]++
		labels[rule.Origin.Level] = rule.Origin.Level.String()
	}

	var levels []rules.Level
	for l := range counts {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	for _, l := range levels {
		r.sources = append(r.sources, SourceSummary{Level: l, Label: labels[l], Count: counts[l]})
	}
}

// Observe records one evaluated path's decision. Matches walk.Options.Observer.
func (r *Reporter) Observe(relPath string, isDir bool, verdict rules.Verdict) {
	switch {
	case verdict.Decision == rules.Exclude:
		r.excluded = append(r.excluded, decision{relPath: relPath, verdict: verdict})
	case verdict.Rule != nil && verdict.Rule.Negated:
		r.included = append(r.included, decision{relPath: relPath, verdict: verdict})
	}
}

// Render writes the human-readable report to w.
func (r *Reporter) Render(w io.Writer) error {
	if !r.Verbose {
		return nil
	}

	if _, err := fmt.Fprintln(w, "Rule sources loaded:"); err != nil {
		return err
	}
	for _, s := range r.sources {
		if _, err := fmt.Fprintf(w, "  [%d] %s: %d rule(s)\n", s.Level, s.Label, s.Count); err != nil {
			return err
		}
	}

	if len(r.excluded) > 0 {
		if _, err := fmt.Fprintln(w, "\nExcluded:"); err != nil {
			return err
		}
		for _, d := range r.excluded {
			if _, err := fmt.Fprintf(w, "  %s (%s)\n", d.relPath, label(d)); err != nil {
				return err
			}
		}
	}

	if len(r.included) > 0 {
		if _, err := fmt.Fprintln(w, "\nIncluded by negation:"); err != nil {
			return err
		}
		for _, d := range r.included {
			if _, err := fmt.Fprintf(w, "  %s included by (%s)\n", d.relPath, label(d)); err != nil {
				return err
			}
		}
	}

	return nil
}

func label(d decision) string {
	if d.verdict.Rule == nil {
		return "default"
	}
	return d.verdict.Rule.Origin.Label()
}
