package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultHandlerTimeout = 5 * time.Second

type HTTPServer struct {
	httpServer *http.Server
}

// NewHandler serves mux with every response bounded by handlerTimeout,
// five seconds when zero. Requests are instrumented when metrics is not
// nil, timed out ones included.
func NewHandler(
	mux *http.ServeMux, handlerTimeout time.Duration, metrics *Metrics,
) http.Handler {
	if handlerTimeout <= 0 {
		handlerTimeout = defaultHandlerTimeout
	}

	var h http.Handler = AllowJSON(mux)
	h = http.TimeoutHandler(h, handlerTimeout, `{"error":"request timeout"}`)
	h = DefaultJSON(h)
	if metrics != nil {
		h = Instrument(metrics, mux, h)
	}
	return h
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("http server is listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
