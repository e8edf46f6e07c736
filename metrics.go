package fhircore

import (
	"sync/atomic"
	"time"
)

// Metrics tracks parse and render counters using lock-free atomics.
// All methods are safe for concurrent use.
type Metrics struct {
	parsesTotal  atomic.Uint64
	parsesFailed atomic.Uint64
	rendersTotal atomic.Uint64
	auditsTotal  atomic.Uint64

	parseTimeTotal atomic.Uint64
	parseTimeMin   atomic.Uint64
	parseTimeMax   atomic.Uint64
}

// NewMetrics creates a Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// First recorded duration becomes the minimum.
	m.parseTimeMin.Store(^uint64(0))
	return m
}

// RecordParse records a completed parse attempt.
func (m *Metrics) RecordParse(duration time.Duration, ok bool) {
	m.parsesTotal.Add(1)
	if !ok {
		m.parsesFailed.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.parseTimeTotal.Add(ns)

	for {
		old := m.parseTimeMin.Load()
		if ns >= old {
			break
		}
		if m.parseTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.parseTimeMax.Load()
		if ns <= old {
			break
		}
		if m.parseTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRender records a completed render.
func (m *Metrics) RecordRender() {
	m.rendersTotal.Add(1)
}

// RecordAudit records a completed audit.
func (m *Metrics) RecordAudit() {
	m.auditsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	ParsesTotal  uint64        `json:"parsesTotal"`
	ParsesFailed uint64        `json:"parsesFailed"`
	RendersTotal uint64        `json:"rendersTotal"`
	AuditsTotal  uint64        `json:"auditsTotal"`
	ParseTimeAvg time.Duration `json:"parseTimeAvg"`
	ParseTimeMin time.Duration `json:"parseTimeMin"`
	ParseTimeMax time.Duration `json:"parseTimeMax"`
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	total := m.parsesTotal.Load()

	var avg time.Duration
	if total > 0 {
		avg = time.Duration(m.parseTimeTotal.Load() / total)
	}

	min := m.parseTimeMin.Load()
	if min == ^uint64(0) {
		min = 0
	}

	return MetricsSnapshot{
		ParsesTotal:  total,
		ParsesFailed: m.parsesFailed.Load(),
		RendersTotal: m.rendersTotal.Load(),
		AuditsTotal:  m.auditsTotal.Load(),
		ParseTimeAvg: avg,
		ParseTimeMin: time.Duration(min),
		ParseTimeMax: time.Duration(m.parseTimeMax.Load()),
	}
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.parsesTotal.Store(0)
	m.parsesFailed.Store(0)
	m.rendersTotal.Store(0)
	m.auditsTotal.Store(0)
	m.parseTimeTotal.Store(0)
	m.parseTimeMin.Store(^uint64(0))
	m.parseTimeMax.Store(0)
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the package-wide metrics collector used by
// Parse, Render and Audit.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
