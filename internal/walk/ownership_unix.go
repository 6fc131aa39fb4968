//go:build unix

package walk

import (
	"os"
	"syscall"
)

// ownership reads the owning uid/gid from info's underlying syscall.Stat_t.
func ownership(info os.FileInfo) (uid, gid int) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0
	}
	return int(stat.Uid), int(stat.Gid)
}
