package goCDEP

import (
	internalmetrics "github.com/MrEthical07/goCDEP/internal/metrics"
)

// MetricID identifies a counter or histogram slot in the client's metric set.
type MetricID = internalmetrics.MetricID

// Counter identifiers. These index the counter array directly, so new IDs
// must be appended before metricIDCount.
const (
	// MetricLoginSuccess is an exported constant or variable used by the dashboard client.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the dashboard client.
	MetricLoginFailure
	// MetricLogout is an exported constant or variable used by the dashboard client.
	MetricLogout
	// MetricRefreshSuccess is an exported constant or variable used by the dashboard client.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the dashboard client.
	MetricRefreshFailure
	// MetricRequestUnauthorized is an exported constant or variable used by the dashboard client.
	MetricRequestUnauthorized
	// MetricRequestQueued is an exported constant or variable used by the dashboard client.
	MetricRequestQueued
	// MetricRequestRetried is an exported constant or variable used by the dashboard client.
	MetricRequestRetried
	// MetricSessionRestored is an exported constant or variable used by the dashboard client.
	MetricSessionRestored
	// MetricSessionRestoreCorrupt is an exported constant or variable used by the dashboard client.
	MetricSessionRestoreCorrupt

	metricIDCount
)

// Histogram identifiers. Numbered from zero independently of counter IDs.
const (
	// MetricRefreshLatency is an exported constant or variable used by the dashboard client.
	MetricRefreshLatency MetricID = iota

	histogramIDCount
)

// Metrics holds the client's atomic counters and latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all collected metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a metric set sized for the client's ID space.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
		Counters:      int(metricIDCount),
		Histograms:    int(histogramIDCount),
	})
}
