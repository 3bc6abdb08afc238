// Package metrics exposes BreakTime activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "breaktime"

// Recorder collects counters on its own registry. A nil Recorder discards
// everything, so callers never need to check whether metrics are enabled.
type Recorder struct {
	registry      *prometheus.Registry
	commands      *prometheus.CounterVec
	breaks        *prometheus.CounterVec
	naturalBreaks *prometheus.CounterVec
	idle          prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands executed, by command name and outcome.",
		}, []string{"command", "outcome"}),
		breaks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaks_started_total",
			Help:      "Scheduled breaks started, by kind.",
		}, []string{"kind"}),
		naturalBreaks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "natural_break_events_total",
			Help:      "Natural break lifecycle events, by type.",
		}, []string{"event"}),
		idle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "natural_break_idle_seconds",
			Help:      "Idle time reported with the latest natural break event.",
		}),
	}
	recorder.registry.MustRegister(recorder.commands, recorder.breaks, recorder.naturalBreaks, recorder.idle)
	return recorder
}

// CommandExecuted counts a command. A nil err counts as "ok".
func (recorder *Recorder) CommandExecuted(command string, err error) {
	if recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	recorder.commands.WithLabelValues(command, outcome).Inc()
}

// BreakStarted counts a scheduled break of the given kind.
func (recorder *Recorder) BreakStarted(kind string) {
	if recorder == nil {
		return
	}
	recorder.breaks.WithLabelValues(kind).Inc()
}

// NaturalBreakEvent counts a natural break event and records its idle time.
func (recorder *Recorder) NaturalBreakEvent(event string, idle time.Duration) {
	if recorder == nil {
		return
	}
	recorder.naturalBreaks.WithLabelValues(event).Inc()
	recorder.idle.Set(idle.Seconds())
}

// Registry returns the underlying registry.
func (recorder *Recorder) Registry() *prometheus.Registry {
	if recorder == nil {
		return nil
	}
	return recorder.registry
}

// Handler serves /metrics and /healthz.
func (recorder *Recorder) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if recorder != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(recorder.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Serve runs the metrics endpoint on addr until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics: %w", err)
		}
		return nil
	}
}
