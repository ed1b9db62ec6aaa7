//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop build, serve and check cleanly.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
