package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "roomgen", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roomgen", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "roomgen", Name: "cache_events_total", Help: "Cache hits/misses/sets."},
		[]string{"cache", "event"}, // event: hit|miss|set
	)
	GeneratedRooms = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "roomgen", Name: "generated_rooms_total", Help: "Rooms written to datasets."},
	)
	GeneratedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "roomgen", Name: "generated_records_total", Help: "Booking records written to datasets."},
	)
	DatasetWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "roomgen", Name: "dataset_writes_total", Help: "Dataset file writes by error type."},
		[]string{"error"},
	)
	DatasetWriteLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "roomgen", Name: "dataset_write_duration_seconds",
			Help:    "Dataset file write duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Serve exposes h on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents,
		GeneratedRooms, GeneratedRecords, DatasetWrites, DatasetWriteLatency)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Push sends everything in reg to a Pushgateway, grouped by run id.
func Push(ctx context.Context, url, job, runID string, reg *prometheus.Registry) error {
	return push.New(url, job).
		Gatherer(reg).
		Grouping("run_id", runID).
		PushContext(ctx)
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveDatasetWrite(rooms, records int, err error, dur time.Duration) {
	DatasetWrites.WithLabelValues(LabelErr(err)).Inc()
	DatasetWriteLatency.Observe(dur.Seconds())
	if err == nil {
		GeneratedRooms.Add(float64(rooms))
		GeneratedRecords.Add(float64(records))
	}
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
