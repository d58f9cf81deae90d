//go:build darwin

package utils

import (
	"os"
	"syscall"
	"time"
)

// creationTime uses the file birth time.
func creationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Birthtimespec.Sec), int64(st.Birthtimespec.Nsec))
	}
	return info.ModTime()
}
