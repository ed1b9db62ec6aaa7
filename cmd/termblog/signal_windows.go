//go:build windows

package main

import "os"

// shutdownSignals stop build, serve and check cleanly.
// syscall.SIGTERM is not delivered on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
