//go:build !windows

package process

import "syscall"

// killTree signals the whole process group; the launcher starts Chrome as
// a group leader.
func killTree(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
