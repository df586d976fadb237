package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/armadaproject/streambench/internal/common/logctx"
)

const shutdownTimeout = 5 * time.Second

// MetricsHandler serves everything registered with gatherer in the prometheus exposition format.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// ServeMetrics serves the default prometheus registry on port until ctx is done.
func ServeMetrics(ctx *logctx.Context, port uint16) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.WithMessagef(err, "listening for metrics on port %d", port)
	}
	return Serve(ctx, listener, MetricsHandler(prometheus.DefaultGatherer))
}

// Serve serves handler on listener until ctx is done, then shuts the server down gracefully.
// It closes listener.
func Serve(ctx *logctx.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		ctx.Log.Infof("Serving on %s", listener.Addr())
		errs <- srv.Serve(listener)
	}()

	select {
	case err := <-errs:
		return errors.WithStack(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WithMessage(err, "shutting down http server")
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}
	return nil
}
