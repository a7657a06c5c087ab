// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package metrics records the shape of a run as Prometheus metrics and writes
// them in the text exposition format, for example for the node exporter
// textfile collector.
package metrics

import (
	"errors"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/launch"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrWriteTextfile is returned when the metrics file cannot be written.
var ErrWriteTextfile = errors.New("failed to write metrics textfile")

const namespace = "fanout"

// Collector holds the metrics for a single run on its own registry.
type Collector struct {
	registry *prometheus.Registry

	info          *prometheus.GaugeVec
	requested     prometheus.Gauge
	launched      prometheus.Gauge
	completed     *prometheus.CounterVec
	childDuration prometheus.Histogram
	runDuration   prometheus.Gauge
}

// NewCollector creates a Collector on a fresh registry.
func NewCollector(runID, version string) *Collector {
	return NewCollectorWithRegistry(runID, version, prometheus.NewRegistry())
}

// NewCollectorWithRegistry creates a Collector and registers its metrics on reg.
func NewCollectorWithRegistry(runID, version string, reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_info",
				Help:      "Information about the run (value always 1)",
			},
			[]string{"run_id", "version"},
		),
		requested: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "commands_requested",
			Help:      "Number of commands requested",
		}),
		launched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "children_launched",
			Help:      "Number of child processes created",
		}),
		completed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "children_completed_total",
				Help:      "Child processes reaped, by outcome",
			},
			[]string{"outcome"},
		),
		childDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "child_duration_seconds",
			Help:      "Time from process creation to reaping",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall clock duration of the run",
		}),
	}

	reg.MustRegister(
		c.info,
		c.requested,
		c.launched,
		c.completed,
		c.childDuration,
		c.runDuration,
	)

	c.info.WithLabelValues(runID, version).Set(1)

	// Both outcomes are always exported, even at zero.
	c.completed.WithLabelValues(launch.Success.String())
	c.completed.WithLabelValues(launch.Failure.String())

	return c
}

// SetRequested records the number of commands requested.
func (c *Collector) SetRequested(n int) {
	c.requested.Set(float64(n))
}

// SetLaunched records the number of children created.
func (c *Collector) SetLaunched(n int) {
	c.launched.Set(float64(n))
}

// ObserveResult counts a reaped child.
func (c *Collector) ObserveResult(r launch.Result) {
	c.completed.WithLabelValues(r.Outcome.String()).Inc()
	c.childDuration.Observe(r.Duration.Seconds())
}

// SetRunDuration records the duration of the whole run.
func (c *Collector) SetRunDuration(d time.Duration) {
	c.runDuration.Set(d.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the metrics to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Join(ErrWriteTextfile, err)
	}

	return nil
}
