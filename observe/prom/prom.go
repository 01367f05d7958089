// Package prom provides a Prometheus-backed scope.Observer. Each Metrics
// value owns a private registry so several runs in one process never clash
// on registration.
package prom

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics records scope and task lifecycle events.
type Metrics struct {
	reg *prometheus.Registry

	activeTasks   prometheus.Gauge
	tasksStarted  prometheus.Counter
	tasksFinished prometheus.Counter
	tasksErrored  prometheus.Counter
	tasksPanicked prometheus.Counter
	taskDuration  prometheus.Histogram

	scopesCreated   prometheus.Counter
	scopesCancelled prometheus.Counter
	joins           prometheus.Counter
	joinWait        prometheus.Histogram
}

// New builds the collectors under namespace (e.g. "fanbench") and labels
// every series with the benchmark name.
func New(namespace, benchmark string) *Metrics {
	labels := prometheus.Labels{"benchmark": benchmark}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: labels,
		})
	}
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tasks_active", Help: "Tasks currently running.", ConstLabels: labels,
		}),
		tasksStarted:  counter("tasks_started_total", "Tasks started."),
		tasksFinished: counter("tasks_finished_total", "Tasks finished, successfully or not."),
		tasksErrored:  counter("tasks_errored_total", "Tasks that returned an error."),
		tasksPanicked: counter("tasks_panicked_total", "Tasks that panicked."),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "task_duration_seconds", Help: "Task run time.",
			ConstLabels: labels, Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		scopesCreated:   counter("scopes_created_total", "Scopes or loop runs started."),
		scopesCancelled: counter("scopes_cancelled_total", "Scopes cancelled before completion."),
		joins:           counter("scope_joins_total", "Join points reached."),
		joinWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "scope_join_wait_seconds", Help: "Time spent blocked at the join point.",
			ConstLabels: labels, Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.reg.MustRegister(
		m.activeTasks, m.tasksStarted, m.tasksFinished, m.tasksErrored, m.tasksPanicked, m.taskDuration,
		m.scopesCreated, m.scopesCancelled, m.joins, m.joinWait,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) ScopeCreated(_ context.Context) {
	m.scopesCreated.Inc()
}

func (m *Metrics) ScopeCancelled(_ context.Context, _ error) {
	m.scopesCancelled.Inc()
}

func (m *Metrics) ScopeJoined(_ context.Context, wait time.Duration) {
	m.joins.Inc()
	m.joinWait.Observe(wait.Seconds())
}

func (m *Metrics) TaskStarted(_ context.Context) {
	m.activeTasks.Inc()
	m.tasksStarted.Inc()
}

func (m *Metrics) TaskFinished(_ context.Context, dur time.Duration, err error, panicked bool) {
	m.activeTasks.Dec()
	m.tasksFinished.Inc()
	if err != nil {
		m.tasksErrored.Inc()
	}
	if panicked {
		m.tasksPanicked.Inc()
	}
	m.taskDuration.Observe(dur.Seconds())
}

// WriteText writes every metric in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
