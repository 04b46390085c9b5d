package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewHandler serves reg merged with the default registry.
func NewHandler(reg *prometheus.Registry) http.Handler {
	gatherers := prometheus.Gatherers{reg, prometheus.DefaultGatherer}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))
	return mux
}

// RegisterServer exposes /metrics on addr for the lifetime of the app. An empty addr disables it.
func RegisterServer(lc fx.Lifecycle, addr string, reg *prometheus.Registry, log *zap.Logger) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		log.Info("metrics endpoint disabled")
		return
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server stopped", zap.Error(err))
				}
			}()
			log.Info("metrics endpoint listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
