//go:build windows

package utils

import (
	"os"
	"syscall"
	"time"
)

// creationTime uses the NTFS creation time.
func creationTime(info os.FileInfo) time.Time {
	if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, data.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
