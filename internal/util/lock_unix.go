//go:build !windows

package util

import (
	"os"
	"syscall"
)

// lockFile takes an exclusive advisory lock on the file. The lock is
// released automatically when the file descriptor is closed.
func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}
