package walk

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scriptedworld/raptar/internal/rules"
)

func compileRule(t *testing.T, raw, base string, level rules.Level, negated bool) *rules.Rule {
	t.Helper()
	kind := rules.OriginCLIExclude
	if negated {
		kind = rules.OriginCLIInclude
	}
	rule, err := rules.Compile(raw, base, rules.Origin{Kind: kind, Level: level})
	if err != nil {
		t.Fatalf("Compile(%q): %v", raw, err)
	}
	return rule
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func entryPaths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.RelPath
	}
	sort.Strings(out)
	return out
}

func TestWalkIncludesEverythingByDefault(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":        "a",
		"b.txt":        "b",
		"sub/c.txt":    "c",
		"sub/sub2/d.txt": "d",
	})

	ruleSet := rules.NewRuleSet(nil)
	w := New(Options{Root: root, RuleSet: ruleSet, Logger: zerolog.Nop()})

	entries, skipped, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}

	got := entryPaths(entries)
	want := []string{"a.txt", "b.txt", "sub", "sub/c.txt", "sub/sub2", "sub/sub2/d.txt"}
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestWalkPrunesExcludedDirectoryWithNoReIncludePossible(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.txt":        "k",
		"build/out.bin":   "o",
		"build/sub/x.bin": "x",
	})

	buildRule := compileRule(t, "build/", "", rules.LevelCLIExclude, false)
	ruleSet := rules.NewRuleSet([]*rules.Rule{buildRule})
	w := New(Options{Root: root, RuleSet: ruleSet, Logger: zerolog.Nop()})

	entries, _, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := entryPaths(entries)
	if len(got) != 1 || got[0] != "keep.txt" {
		t.Fatalf("expected only keep.txt, got %v", got)
	}
}

func TestWalkDescendsExcludedDirectoryWhenNegationCouldReinclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"build/out.bin":     "o",
		"build/keep/me.txt": "m",
	})

	// excludeBuild is anchored at root (Base "."); reincludeKeep models a
	// negation rule whose own Base is "build" itself — the shape a nested
	// ignore file inside build/ would produce. Its level is at least
	// excludeBuild's, which is what makes the walker descend into build/.
	// excludeBin is a non-dir-only rule so it still excludes build/out.bin
	// once the walker is forced to descend: a dir-only exclude rule only
	// ever matches the directory entry itself, never the files beneath it.
	excludeBuild := compileRule(t, "build/", "", rules.LevelCLIExclude, false)
	excludeBin := compileRule(t, "*.bin", "", rules.LevelCLIExclude, false)
	reincludeKeep := compileRule(t, "!keep/", "build", rules.LevelCLIInclude, true)
	ruleSet := rules.NewRuleSet([]*rules.Rule{excludeBuild, excludeBin, reincludeKeep})
	w := New(Options{Root: root, RuleSet: ruleSet, Logger: zerolog.Nop()})

	entries, _, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := entryPaths(entries)
	found := false
	for _, p := range got {
		if p == "build/keep/me.txt" {
			found = true
		}
		if p == "build/out.bin" {
			t.Fatalf("build/out.bin should remain excluded, got entries %v", got)
		}
	}
	if !found {
		t.Fatalf("expected build/keep/me.txt to be re-included, got %v", got)
	}
}

func TestWalkObserverSeesEveryCandidate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.log": "a",
		"b.txt": "b",
	})

	excludeLog := compileRule(t, "*.log", "", rules.LevelCLIExclude, false)
	ruleSet := rules.NewRuleSet([]*rules.Rule{excludeLog})

	seen := map[string]rules.Decision{}
	w := New(Options{
		Root:    root,
		RuleSet: ruleSet,
		Logger:  zerolog.Nop(),
		Observer: func(relPath string, isDir bool, verdict rules.Verdict) {
			seen[relPath] = verdict.Decision
		},
	})

	if _, _, err := w.Walk(); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	if seen["a.log"] != rules.Exclude {
		t.Fatalf("expected a.log excluded, got %v", seen["a.log"])
	}
	if seen["b.txt"] != rules.Include {
		t.Fatalf("expected b.txt included, got %v", seen["b.txt"])
	}
}

func TestWalkDeterministicOrderIsSorted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"zeta.txt":  "z",
		"alpha.txt": "a",
		"mid/mu.txt": "m",
	})

	ruleSet := rules.NewRuleSet(nil)
	w := New(Options{Root: root, RuleSet: ruleSet, Logger: zerolog.Nop()})

	entries, _, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	var top []string
	for _, e := range entries {
		if filepath.Dir(filepath.FromSlash(e.RelPath)) == "." {
			top = append(top, e.RelPath)
		}
	}
	if len(top) != 3 || top[0] != "alpha.txt" || top[1] != "mid" || top[2] != "zeta.txt" {
		t.Fatalf("expected lexicographic top-level order, got %v", top)
	}
}

func TestWalkSymlinkLoopDetectedUnderDereference(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real")
	if err := os.MkdirAll(target, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	loop := filepath.Join(target, "loop")
	if err := os.Symlink(target, loop); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	ruleSet := rules.NewRuleSet(nil)
	w := New(Options{Root: root, RuleSet: ruleSet, Dereference: true, Logger: zerolog.Nop()})

	entries, _, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	for _, e := range entries {
		if e.RelPath == "real/loop/loop" {
			t.Fatalf("symlink loop should have been broken, got %v", e.RelPath)
		}
	}
}

func TestWalkPopulatesOwnershipFromFileInfo(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a"})

	info, err := os.Stat(filepath.Join(root, "a.txt"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	wantUID, wantGID := ownership(info)

	ruleSet := rules.NewRuleSet(nil)
	w := New(Options{Root: root, RuleSet: ruleSet, Logger: zerolog.Nop()})

	entries, _, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	for _, e := range entries {
		if e.RelPath != "a.txt" {
			continue
		}
		if e.Uid != wantUID || e.Gid != wantGID {
			t.Fatalf("expected uid/gid %d/%d, got %d/%d", wantUID, wantGID, e.Uid, e.Gid)
		}
		return
	}
	t.Fatal("a.txt entry not found")
}

func TestWalkReportsSkippedPathOnUnreadableEntry(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a"})
	denied := filepath.Join(root, "denied")
	if err := os.MkdirAll(denied, 0o000); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(denied, 0o750) })

	if os.Geteuid() == 0 {
		t.Skip("running as root bypasses directory permission checks")
	}

	ruleSet := rules.NewRuleSet(nil)
	w := New(Options{Root: root, RuleSet: ruleSet, Logger: zerolog.Nop()})

	_, skipped, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	found := false
	for _, s := range skipped {
		if s.RelPath == "denied" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected denied directory to be recorded as skipped, got %v", skipped)
	}
}
