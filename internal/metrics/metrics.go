// Package metrics records per-run conversion metrics in a private Prometheus
// registry and writes them as a node-exporter textfile at the end of a run.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the run's collectors.
type Recorder struct {
	reg *prometheus.Registry

	files       *prometheus.CounterVec
	inputBytes  prometheus.Counter
	outputBytes prometheus.Counter
	duration    prometheus.Histogram
	lastRun     prometheus.Gauge
	interrupted prometheus.Gauge
}

// New returns a Recorder registered on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		files: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidbatch_files_total",
				Help: "Files handled, by outcome",
			},
			[]string{"outcome"},
		),
		inputBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "vidbatch_input_bytes_total",
			Help: "Bytes read from successfully converted inputs",
		}),
		outputBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "vidbatch_output_bytes_total",
			Help: "Bytes written by successful conversions",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vidbatch_file_duration_seconds",
			Help:    "Wall time spent per file",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1s to ~2.3h
		}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "vidbatch_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		interrupted: f.NewGauge(prometheus.GaugeOpts{
			Name: "vidbatch_last_run_interrupted",
			Help: "1 if the last run was interrupted",
		}),
	}
}

// Observe records one completed file. Byte counters only move on success.
func (r *Recorder) Observe(outcome string, inBytes, outBytes int64, took time.Duration) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(outcome).Inc()
	r.duration.Observe(took.Seconds())
	if outcome == "success" {
		r.inputBytes.Add(float64(inBytes))
		r.outputBytes.Add(float64(outBytes))
	}
}

// Finish stamps the end of the run.
func (r *Recorder) Finish(at time.Time, interrupted bool) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
	if interrupted {
		r.interrupted.Set(1)
	} else {
		r.interrupted.Set(0)
	}
}

// WriteTextfile atomically writes all metrics to path in the text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
