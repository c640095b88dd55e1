//go:build !windows
// +build !windows

package dbfile

import "golang.org/x/sys/unix"

// isProcessRunning sends signal 0, which checks existence without delivery.
// EPERM means the process exists under another user.
func isProcessRunning(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
