// Package metrics exposes the Prometheus metrics of the cleaner service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/cleaner"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/pipeline/model"
)

const namespace = "cleaner"

// Run kinds.
const (
	KindIngest = "ingest"
	KindClean  = "clean"
)

type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Runs            *prometheus.CounterVec
	StepDuration    *prometheus.HistogramVec
	StepOutputs     *prometheus.CounterVec
	RowsRemoved     *prometheus.CounterVec
	CellsChanged    *prometheus.CounterVec
}

// New registers every metric on a dedicated registry, along with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Ingestion and cleaning runs by outcome.",
		}, []string{"kind", "outcome"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Computation time of a step for one output.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"step"}),
		StepOutputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_outputs_total",
			Help:      "Outputs produced by a step.",
		}, []string{"step"}),
		RowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_removed_total",
			Help:      "Rows removed by a cleaning step.",
		}, []string{"step"}),
		CellsChanged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_changed_total",
			Help:      "Cells rewritten by a cleaning step.",
		}, []string{"step"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.RequestDuration,
		m.Runs,
		m.StepDuration,
		m.StepOutputs,
		m.RowsRemoved,
		m.CellsChanged,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by chi route pattern. It must be mounted on a chi router.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveRun counts a finished run of the given kind.
func (m *Metrics) ObserveRun(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Runs.WithLabelValues(kind, outcome).Inc()
}

// ObserveClean records what every step of a cleaning run changed.
func (m *Metrics) ObserveClean(res *cleaner.Result) {
	for _, step := range res.Steps {
		if step.Skipped {
			continue
		}
		if removed := step.RowsBefore - step.RowsAfter; removed > 0 {
			m.RowsRemoved.WithLabelValues(step.Step).Add(float64(removed))
		} else if step.Changed > 0 {
			m.CellsChanged.WithLabelValues(step.Step).Add(float64(step.Changed))
		}
	}
}

// PipelineOption observes the steps of any run. Unlike the measure and drawer options it keeps
// no per-run state, so one instance can be shared by concurrent runs.
func (m *Metrics) PipelineOption() model.PipelineOption {
	return &pipelineMetrics{m: m}
}

type pipelineMetrics struct {
	m *Metrics
}

func (pm *pipelineMetrics) New() error {
	return nil
}

func (pm *pipelineMetrics) PrepareStep(_, _ *model.StepInfo) error {
	return nil
}

func (pm *pipelineMetrics) OnStepOutput(_, step *model.StepInfo, _, computationDuration time.Duration) error {
	pm.m.StepDuration.WithLabelValues(step.Name).Observe(computationDuration.Seconds())
	pm.m.StepOutputs.WithLabelValues(step.Name).Inc()

	return nil
}

func (pm *pipelineMetrics) PrepareSink(_, _ *model.StepInfo) error {
	return nil
}

func (pm *pipelineMetrics) AfterSink(_ *model.StepInfo, _ time.Duration) error {
	return nil
}

func (pm *pipelineMetrics) Finish() error {
	return nil
}
