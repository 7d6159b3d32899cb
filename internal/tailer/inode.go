//go:build unix

package tailer

import (
	"os"

	"golang.org/x/sys/unix"
)

// inodeOf extracts the inode number from a stat result on platforms where
// it's available. Elsewhere it always reports 0, and the caller treats that
// as "inode unknown" rather than a delete-recreate signal.
func inodeOf(info os.FileInfo) uint64 {
	st, ok := info.Sys().(*unix.Stat_t)
	if !ok {
		return 0
	}
	return st.Ino
}
