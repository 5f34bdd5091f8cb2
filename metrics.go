package carveauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful credential logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected credential logins.
	MetricLoginFailure
	// MetricSessionCreated counts sessions written to the store.
	MetricSessionCreated
	// MetricSessionRevoked counts explicit session revocations.
	MetricSessionRevoked
	// MetricTokenIssued counts tokens minted by IssueToken.
	MetricTokenIssued
	// MetricIssueRejected counts issuance requests with no live session.
	MetricIssueRejected
	// MetricValidateSuccess counts tokens resolved to an identity.
	MetricValidateSuccess
	// MetricValidateRejected counts malformed, expired, or forged tokens.
	MetricValidateRejected
	// MetricSessionMismatch counts validations where the token outlived or
	// contradicted its session.
	MetricSessionMismatch

	metricCount
)

// Metrics is a fixed set of lock-free counters. All methods are safe for
// concurrent use.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics returns a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc adds one to the counter. Unknown IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot copies all counters. The returned map is owned by the caller.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
