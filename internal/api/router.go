package api

import (
	"internal-angle-service/internal/adapters/wkt"
	"internal-angle-service/internal/api/handlers"
	"internal-angle-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options tune the angle endpoints.
type Options struct {
	BatchConcurrency int
	MaxBatch         int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(proc *services.PairProcessor, gatherer prometheus.Gatherer, opts Options) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	angles := &handlers.AngleHandler{
		Processor:   proc,
		FormatPoint: wkt.FormatPoint,
		Concurrency: opts.BatchConcurrency,
		MaxBatch:    opts.MaxBatch,
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/angles", angles.Angle).Methods(http.MethodPost)
	r.HandleFunc("/angles/batch", angles.Batch).Methods(http.MethodPost)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return loggingMiddleware(r)
}
