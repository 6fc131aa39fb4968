package rules

import "sort"

// Decision is the outcome of evaluating a path against a RuleSet.
type Decision int

const (
	// Include means the path belongs in the archive.
	Include Decision = iota
	// Exclude means the path is pruned from the archive.
	Exclude
)

// Verdict pairs a Decision with the rule that produced it. Rule is nil when
// no rule matched (the default-include case).
type Verdict struct {
	Decision Decision
	Rule     *Rule
}

// RuleSet is the ordered, prioritized collection of compiled rules described
// applied here. Rules are stored in evaluation order (ascending priority
// level, then load order within a level) and evaluated in reverse for
// last-match-wins semantics.
type RuleSet struct {
	rules []*Rule
}

// NewRuleSet builds a RuleSet from compiled rules in load order. The slice
// is stable-sorted by ascending Origin.Level; rules within the same level
// keep their relative load order (evaluation is total and stable).
func NewRuleSet(compiled []*Rule) *RuleSet {
	rs := &RuleSet{rules: append([]*Rule(nil), compiled...)}
	sort.SliceStable(rs.rules, func(i, j int) bool {
		return rs.rules[i].Origin.Level < rs.rules[j].Origin.Level
	})
	return rs
}

// Rules returns the rules in evaluation order (weakest precedence first).
func (rs *RuleSet) Rules() []*Rule {
	return rs.rules
}

// Len reports the number of compiled rules held by the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Evaluate decides relPath (relative to the archive root, slash-separated,
// no leading "/"): iterate rules strongest-first, skip
// dir_only rules against non-directories, skip rules whose base does not
// contain relPath, and return the first (i.e. highest-priority / latest
// load order) match. Absent any match, the default decision is Include.
func (rs *RuleSet) Evaluate(relPath string, isDir bool) Verdict {
	for i := len(rs.rules) - 1; i >= 0; i-- {
		rule := rs.rules[i]

		if rule.DirOnly && !isDir {
			continue
		}

		rebased, ok := rule.RelativeToBase(relPath)
		if !ok {
			continue
		}

		if !rule.Match(rebased, isDir) {
			continue
		}

		decision := Exclude
		if rule.Negated {
			decision = Include
		}
		return Verdict{Decision: decision, Rule: rule}
	}

	return Verdict{Decision: Include, Rule: nil}
}

// HasNegatedRuleAtOrBelow reports whether the set contains any negated rule
// whose Base is base itself or a descendant of it, and whose priority is at
// least minLevel. The walker calls it with an empty base, which every Base
// satisfies (the "simpler acceptable rule"), to decide whether an excluded
// directory still needs to be descended into because some negation of at
// least the excluding rule's priority could re-include one of its children.
func (rs *RuleSet) HasNegatedRuleAtOrBelow(base string, minLevel Level) bool {
	for _, rule := range rs.rules {
		if !rule.Negated {
			continue
		}
		if rule.Origin.Level < minLevel {
			continue
		}
		if baseAtOrBelow(rule.Base, base) {
			return true
		}
	}
	return false
}

// baseAtOrBelow reports whether candidate is base itself or nested under it.
func baseAtOrBelow(candidate, base string) bool {
	if base == "" || base == "." {
		return true
	}
	if candidate == base {
		return true
	}
	return len(candidate) > len(base) && candidate[:len(base)] == base && candidate[len(base)] == '/'
}
