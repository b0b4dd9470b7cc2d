package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	predictionsTotal        atomic.Uint64
	predictionsUniformTotal atomic.Uint64
	predictionsFailedTotal  atomic.Uint64
	trainingRequestsTotal   atomic.Uint64

	byCategoryMu sync.Mutex
	byCategory   = map[string]uint64{}

	predictionDuration = newHistogram([]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25})
)

// IncPrediction counts a served prediction for the given task type.
// uniform marks zero-signal input that fell back to the uniform distribution.
func IncPrediction(taskType string, uniform bool) {
	predictionsTotal.Add(1)
	if uniform {
		predictionsUniformTotal.Add(1)
	}
	byCategoryMu.Lock()
	byCategory[taskType]++
	byCategoryMu.Unlock()
}

// IncPredictionFailed increments the failed prediction counter.
func IncPredictionFailed() {
	predictionsFailedTotal.Add(1)
}

// IncTrainingRequest increments the training request counter.
func IncTrainingRequest() {
	trainingRequestsTotal.Add(1)
}

// ObservePredictionDurationMs records a prediction duration in milliseconds.
func ObservePredictionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	predictionDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "predictions_total", "Total predictions served", predictionsTotal.Load())
	writeCounter(&buf, "predictions_uniform_total", "Predictions with no keyword signal", predictionsUniformTotal.Load())
	writeCounter(&buf, "predictions_failed_total", "Predictions that failed", predictionsFailedTotal.Load())
	writeCounter(&buf, "training_requests_total", "Total training requests", trainingRequestsTotal.Load())
	writeLabeledCounter(&buf, "predictions_by_category_total", "Predictions per task type", "task_type", categorySnapshot())
	writeHistogram(&buf, "prediction_duration_ms", "Prediction duration in milliseconds", predictionDuration.Snapshot())
	return buf.String()
}

func categorySnapshot() map[string]uint64 {
	byCategoryMu.Lock()
	defer byCategoryMu.Unlock()
	out := make(map[string]uint64, len(byCategory))
	for k, v := range byCategory {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts are per-bucket; writeHistogram accumulates them
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
