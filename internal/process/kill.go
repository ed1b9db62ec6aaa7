// Package process stops browser processes started for PDF export.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that would target init or the caller's
// own process group.
var ErrInvalidPID = errors.New("invalid pid")

// KillTree kills pid and every process it spawned. Chrome leaves renderer
// and GPU helpers behind when only the parent is killed.
func KillTree(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return killTree(pid)
}
