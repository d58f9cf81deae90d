//go:build linux

package utils

import (
	"os"
	"syscall"
	"time"
)

// creationTime uses the inode change time. Linux does not expose a birth
// time through syscall.Stat_t.
func creationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}
