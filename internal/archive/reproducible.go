package archive

import (
	"os"
	"time"

	"github.com/scriptedworld/raptar/internal/walk"
)

// reproducibleDirMode is the mode every directory gets in reproducible mode,
// so two archives of the same tree are byte-identical regardless of the
// environment that produced them. Other entries keep their permission bits.
const reproducibleDirMode = os.FileMode(0o755)

// Normalize strips an entry's timestamp and masks its mode for
// reproducible-mode output, zeroing uid/gid unless preserveOwner is set.
// It does not mutate e.
func Normalize(e walk.Entry, preserveOwner bool) walk.Entry {
	e.ModTime = time.Unix(0, 0).UTC()

	if e.Kind == walk.KindDirectory {
		e.Mode = reproducibleDirMode
	} else {
		e.Mode = e.Mode.Perm()
	}

	if !preserveOwner {
		e.Uid = 0
		e.Gid = 0
	}

	return e
}
