// Package walk implements the depth-first archive-root traversal driver:
// it evaluates every candidate path against a rule.RuleSet,
// prunes excluded subtrees, and emits an ordered, deterministic stream of
// walk entries.
package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/scriptedworld/raptar/internal/rules"
)

// Kind classifies a walk entry's file type.
type Kind int

const (
	KindRegular Kind = iota
	KindDirectory
	KindSymlink
)

// Entry is one emitted archive entry.
type Entry struct {
	RelPath    string
	Kind       Kind
	Size       int64
	Mode       os.FileMode
	ModTime    time.Time
	LinkTarget string
	Uid        int
	Gid        int
	Verdict    rules.Verdict
}

// SkippedPath records a per-path filesystem error: the walk
// continues, but this path is absent from the archive.
type SkippedPath struct {
	RelPath string
	Err     error
}

// Options configures one walk.
type Options struct {
	Root        string
	RuleSet     *rules.RuleSet
	Dereference bool
	Logger      zerolog.Logger

	// Observer, when set, is called once for every candidate path the
	// walker evaluates against RuleSet, whether or not the path ends up in
	// the emitted entry stream. The provenance reporter uses this to
	// attribute excluded paths to their winning rule; archive
	// writers don't need it and can leave it nil.
	Observer func(relPath string, isDir bool, verdict rules.Verdict)
}

// Walker drives the directory-tree traversal.
type Walker struct {
	opts     Options
	skipped  []SkippedPath
	ancestry []os.FileInfo // every symlinked directory followed so far in this walk, for loop detection
}

// New returns a Walker configured per opts.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk runs the traversal and returns the ordered entry stream plus any
// per-path errors that were skipped along the way.
func (w *Walker) Walk() ([]Entry, []SkippedPath, error) {
	rootInfo, err := os.Stat(w.opts.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("unreadable archive root: %w", err)
	}
	if !rootInfo.IsDir() {
		return nil, nil, fmt.Errorf("archive root is not a directory: %s", w.opts.Root)
	}

	var entries []Entry
	if err := w.walkDir(w.opts.Root, "", &entries); err != nil {
		return nil, w.skipped, err
	}
	return entries, w.skipped, nil
}

func (w *Walker) walkDir(absDir, relDir string, out *[]Entry) error {
	names, err := readSortedDir(absDir)
	if err != nil {
		w.recordSkip(relDir, err)
		return nil
	}

	for _, name := range names {
		absPath := filepath.Join(absDir, name)
		relPath := name
		if relDir != "" {
			relPath = relDir + "/" + name
		}

		lst, err := os.Lstat(absPath)
		if err != nil {
			w.recordSkip(relPath, err)
			continue
		}

		isSymlink := lst.Mode()&os.ModeSymlink != 0
		isDir := lst.IsDir()
		target := ""

		statInfo := lst
		if isSymlink && w.opts.Dereference {
			followed, target2, loop, err := w.resolveSymlink(absPath)
			if err != nil {
				w.recordSkip(relPath, err)
				continue
			}
			if loop {
				w.opts.Logger.Warn().Str("path", relPath).Msg("symlink loop detected in dereference mode, skipping")
				continue
			}
			statInfo = followed
			isDir = followed.IsDir()
			isSymlink = false
			target = target2
		} else if isSymlink {
			target, _ = os.Readlink(absPath)
		}

		verdict := w.opts.RuleSet.Evaluate(relPath, isDir)
		if w.opts.Observer != nil {
			w.opts.Observer(relPath, isDir, verdict)
		}

		if verdict.Decision == rules.Exclude {
			if isDir {
				if w.shouldDescendExcluded(relPath, verdict) {
					if err := w.descend(absPath, relPath, out); err != nil {
						return err
					}
				}
			}
			continue
		}

		uid, gid := ownership(statInfo)

		if isDir {
			*out = append(*out, Entry{
				RelPath: relPath,
				Kind:    KindDirectory,
				Mode:    statInfo.Mode(),
				ModTime: statInfo.ModTime(),
				Uid:     uid,
				Gid:     gid,
				Verdict: verdict,
			})
			if err := w.descend(absPath, relPath, out); err != nil {
				return err
			}
			continue
		}

		kind := KindRegular
		if isSymlink {
			kind = KindSymlink
		}
		*out = append(*out, Entry{
			RelPath:    relPath,
			Kind:       kind,
			Size:       statInfo.Size(),
			Mode:       statInfo.Mode(),
			ModTime:    statInfo.ModTime(),
			LinkTarget: target,
			Uid:        uid,
			Gid:        gid,
			Verdict:    verdict,
		})
	}

	return nil
}

// descend recurses into absPath/relPath, a directory already decided for
// inclusion (or pruned-but-reachable-via-negation).
func (w *Walker) descend(absPath, relPath string, out *[]Entry) error {
	return w.walkDir(absPath, relPath, out)
}

// resolveSymlink follows absPath (known to be a symlink) to its target,
// reporting the target's FileInfo, its textual target, and whether it is a
// directory already followed earlier in this walk (compared with
// os.SameFile); such a link is reported as a loop.
func (w *Walker) resolveSymlink(absPath string) (os.FileInfo, string, bool, error) {
	target, err := os.Readlink(absPath)
	if err != nil {
		return nil, "", false, err
	}
	followed, err := os.Stat(absPath)
	if err != nil {
		return nil, "", false, err
	}
	if followed.IsDir() {
		for _, anc := range w.ancestry {
			if os.SameFile(anc, followed) {
				return nil, target, true, nil
			}
		}
		w.ancestry = append(w.ancestry, followed)
	}
	return followed, target, false, nil
}

// shouldDescendExcluded implements the "simpler acceptable rule" variant:
// descend into an excluded directory only if the rule set contains any
// negated rule whose priority is >= the excluding rule's priority (so it
// could plausibly re-include a descendant); otherwise prune the subtree
// outright. This implementation deliberately picks this variant over the
// conservative base/segment-prefix analysis (see DESIGN.md "Open Question").
func (w *Walker) shouldDescendExcluded(relPath string, verdict rules.Verdict) bool {
	minLevel := rules.LevelEcosystem
	if verdict.Rule != nil {
		minLevel = verdict.Rule.Origin.Level
	}
	return w.opts.RuleSet.HasNegatedRuleAtOrBelow("", minLevel)
}

func (w *Walker) recordSkip(relPath string, err error) {
	w.opts.Logger.Warn().Str("path", relPath).Err(err).Msg("skipping path after filesystem error")
	w.skipped = append(w.skipped, SkippedPath{RelPath: relPath, Err: err})
}

// readSortedDir lists absDir's entries sorted lexicographically by byte
// value, for determinism. os.ReadDir already returns entries
// sorted by filename, but the sort is made explicit here since that is a
// documented contract, not an incidental property to depend on.
func readSortedDir(absDir string) ([]string, error) {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)
	return names, nil
}
