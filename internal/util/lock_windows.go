//go:build windows

package util

import "os"

// lockFile is a no-op on Windows. The temp-file-then-rename sequence alone
// provides the atomicity guarantee; advisory locks are a Unix concept.
func lockFile(f *os.File) error {
	return nil
}
