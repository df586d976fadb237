package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/armadaproject/streambench/internal/common/logctx"
)

// CreateContextWithShutdown returns a context that will report done when SIGINT or SIGTERM is received.
func CreateContextWithShutdown() *logctx.Context {
	return withShutdown(logctx.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func withShutdown(parent *logctx.Context, signals ...os.Signal) *logctx.Context {
	ctx, cancel := logctx.WithCancel(parent)
	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)
	go func() {
		defer signal.Stop(c)
		select {
		case sig := <-c:
			ctx.Log.Infof("Received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
