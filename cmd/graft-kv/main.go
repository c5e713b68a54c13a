// Command graft-kv serves a graft store over HTTP. Any store adapter can
// back it; remote processes reach it through the httpstore client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/httpstore"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "graftkv_requests_total",
		Help: "HTTP requests served, by method and status code.",
	},
	[]string{"method", "status"},
)

func main() {
	var (
		addr    = flag.String("addr", ":8080", "listen address")
		adapter = flag.String("adapter", "mem", "store adapter (mem, file, sqlite)")
		path    = flag.String("path", "graft-kv.yaml", "store location for file/sqlite adapters")
		verbose = flag.Bool("verbose", false, "enable verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := graft.OpenStore(*path,
		graft.WithAdapter(*adapter),
		graft.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to open store", "adapter", *adapter, "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(countRequests)
	r.Mount("/", httpstore.NewHandler(store, logger))
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("graft-kv listening", "addr", *addr, "adapter", *adapter)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

// countRequests records one counter increment per served request.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		requestsTotal.WithLabelValues(r.Method, fmt.Sprintf("%d", rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
