package farmaplex

import "sync/atomic"

// MetricID identifies one lifecycle counter.
type MetricID uint8

const (
	// MetricRequest counts API requests issued through the client.
	MetricRequest MetricID = iota
	// MetricLoginSuccess counts completed logins.
	MetricLoginSuccess
	// MetricLoginFailure counts rejected logins.
	MetricLoginFailure
	// MetricLogout counts explicit logouts.
	MetricLogout
	// MetricSessionRestored counts sessions restored from storage at
	// startup.
	MetricSessionRestored
	// MetricAuthFailure counts credential rejections (401/403) detected by
	// the transport.
	MetricAuthFailure
	// MetricIdleWarning counts idle warnings shown.
	MetricIdleWarning
	// MetricIdleExpiry counts sessions ended by the inactivity watchdog.
	MetricIdleExpiry

	metricCount
)

var metricNames = [metricCount]string{
	MetricRequest:         "request",
	MetricLoginSuccess:    "login_success",
	MetricLoginFailure:    "login_failure",
	MetricLogout:          "logout",
	MetricSessionRestored: "session_restored",
	MetricAuthFailure:     "auth_failure",
	MetricIdleWarning:     "idle_warning",
	MetricIdleExpiry:      "idle_expiry",
}

// String returns the snapshot key for the metric.
func (id MetricID) String() string {
	if id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// Metrics is a fixed set of lifecycle counters. All methods are safe for
// concurrent use.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

// NewMetrics returns zeroed counters.
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

// Get returns the counter's current value.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot returns every counter keyed by name.
func (m *Metrics) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, metricCount)
	for id := MetricID(0); id < metricCount; id++ {
		out[id.String()] = m.counters[id].Load()
	}
	return out
}
