// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdrive

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records driver progress in a Prometheus registry, for
// export through the node exporter's textfile collector.
type Metrics struct {
	reg         *prometheus.Registry
	runtime     *prometheus.GaugeVec
	scaleEvents *prometheus.GaugeVec
	runs        *prometheus.CounterVec
}

// NewMetrics returns Metrics backed by a fresh registry.
func NewMetrics() *Metrics {
	labels := []string{"benchmark", "variant", "pool_size"}
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		runtime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "poolbench_runtime_seconds",
			Help: "Wall-clock runtime of the last run of a combination.",
		}, labels),
		scaleEvents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "poolbench_scale_events",
			Help: "Pool scaling events reported by the last adaptive run.",
		}, labels),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poolbench_runs_total",
			Help: "Benchmark processes run, by outcome.",
		}, []string{"benchmark", "status"}),
	}
	m.reg.MustRegister(m.runtime, m.scaleEvents, m.runs)
	return m
}

// Registry returns the registry holding the driver metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) observe(c Combination, r *Result) {
	size := strconv.Itoa(c.Size)
	m.runtime.WithLabelValues(c.Benchmark, c.Variant, size).Set(r.RuntimeSeconds)
	if c.Size == 0 {
		m.scaleEvents.WithLabelValues(c.Benchmark, c.Variant, size).Set(float64(len(r.ScaleLines)))
	}
	status := "ok"
	if r.ExitCode != 0 {
		status = "failed"
	}
	m.runs.WithLabelValues(c.Benchmark, status).Inc()
}

// WriteTextfile writes the metrics to path in the text exposition
// format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
