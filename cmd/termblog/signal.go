package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context that is canceled on the first shutdown
// signal.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
