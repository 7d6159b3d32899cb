//go:build !unix

package tailer

import "os"

func inodeOf(info os.FileInfo) uint64 {
	return 0
}
