package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var pendingEvaluations = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "pending_evaluations",
	Help: "Number of submitted answers waiting for a grader",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_evaluation_workers",
	Help: "Number of evaluation workers currently grading",
})

var ungradedEvaluations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ungraded_evaluations_total",
	Help: "Evaluations whose verdict could not be parsed and were flagged",
})

var quizDroppedBlocks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "quiz_dropped_blocks_total",
	Help: "Generated question blocks that did not match the Q/A format",
})

var chunksIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chunks_ingested_total",
	Help: "Chunks seen at upload, labelled accepted or skipped",
}, []string{"outcome"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func AddPendingEvaluations(n int) {
	pendingEvaluations.Add(float64(n))
}

func DecrementPendingEvaluations() {
	pendingEvaluations.Dec()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func IncrementUngraded() {
	ungradedEvaluations.Inc()
}

func AddDroppedBlocks(n int) {
	quizDroppedBlocks.Add(float64(n))
}

func CaptureIngest(accepted int, skipped int) {
	chunksIngested.WithLabelValues("accepted").Add(float64(accepted))
	chunksIngested.WithLabelValues("skipped").Add(float64(skipped))
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_request_duration_seconds",
	Help:    "Total time spent in a coordinator operation.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"operation", "status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureRequestMetrics(operation string, status string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(operation, status).Observe(timeElapsed.Seconds())
}
