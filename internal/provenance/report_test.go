package provenance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/scriptedworld/raptar/internal/rules"
)

func compileRule(t *testing.T, raw string, level rules.Level) *rules.Rule {
	t.Helper()
	rule, err := rules.Compile(raw, "", rules.Origin{Kind: rules.OriginCLIExclude, Level: level})
	if err != nil {
		t.Fatalf("Compile(%q): %v", raw, err)
	}
	return rule
}

func TestObserveRecordsExcludedAndIncludedByNegation(t *testing.T) {
	excludeLog := compileRule(t, "*.log", rules.LevelCLIExclude)
	reincludeKeep, err := rules.Compile("!keep.log", "", rules.Origin{Kind: rules.OriginCLIInclude, Level: rules.LevelCLIInclude})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	r := NewReporter(true)
	r.Observe("a.log", false, rules.Verdict{Decision: rules.Exclude, Rule: excludeLog})
	r.Observe("keep.log", false, rules.Verdict{Decision: rules.Include, Rule: reincludeKeep})
	r.Observe("b.txt", false, rules.Verdict{Decision: rules.Include, Rule: nil})

	if len(r.excluded) != 1 || r.excluded[0].relPath != "a.log" {
		t.Fatalf("expected a.log recorded as excluded, got %v", r.excluded)
	}
	if len(r.included) != 1 || r.included[0].relPath != "keep.log" {
		t.Fatalf("expected keep.log recorded as included by negation, got %v", r.included)
	}
}

func TestRenderIsNoOpWhenNotVerbose(t *testing.T) {
	r := NewReporter(false)
	r.Observe("a.log", false, rules.Verdict{Decision: rules.Exclude, Rule: compileRule(t, "*.log", rules.LevelCLIExclude)})

	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output when not verbose, got %q", buf.String())
	}
}

func TestRenderListsSourcesAndDecisions(t *testing.T) {
	excludeLog := compileRule(t, "*.log", rules.LevelCLIExclude)
	ruleSet := rules.NewRuleSet([]*rules.Rule{excludeLog})

	r := NewReporter(true)
	r.LoadSummary(ruleSet)
	r.Observe("a.log", false, rules.Verdict{Decision: rules.Exclude, Rule: excludeLog})

	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Rule sources loaded:") {
		t.Fatalf("missing sources header: %q", out)
	}
	if !strings.Contains(out, "--with-exclude") {
		t.Fatalf("missing source label: %q", out)
	}
	if !strings.Contains(out, "Excluded:") || !strings.Contains(out, "a.log") {
		t.Fatalf("missing excluded section: %q", out)
	}
}
