package sigctx

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext returns a copy of parent that is done on the first
// SIGINT, SIGTERM or SIGQUIT.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
