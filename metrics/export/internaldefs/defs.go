package internaldefs

import (
	goCDEP "github.com/MrEthical07/goCDEP"
)

// CounterDef defines a public type used by goCDEP APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goCDEP.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goCDEP APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goCDEP.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the dashboard client.
var CounterDefs = []CounterDef{
	{ID: goCDEP.MetricLoginSuccess, Name: "cdep_login_success_total", Help: "Successful login attempts."},
	{ID: goCDEP.MetricLoginFailure, Name: "cdep_login_failure_total", Help: "Failed login attempts."},
	{ID: goCDEP.MetricLogout, Name: "cdep_logout_total", Help: "Logout operations, explicit or forced."},
	{ID: goCDEP.MetricRefreshSuccess, Name: "cdep_refresh_success_total", Help: "Successful token refresh operations."},
	{ID: goCDEP.MetricRefreshFailure, Name: "cdep_refresh_failure_total", Help: "Failed token refresh operations."},
	{ID: goCDEP.MetricRequestUnauthorized, Name: "cdep_request_unauthorized_total", Help: "Requests rejected with 401 before recovery."},
	{ID: goCDEP.MetricRequestQueued, Name: "cdep_request_queued_total", Help: "Requests queued behind an in-flight refresh."},
	{ID: goCDEP.MetricRequestRetried, Name: "cdep_request_retried_total", Help: "Requests replayed after a refresh."},
	{ID: goCDEP.MetricSessionRestored, Name: "cdep_session_restored_total", Help: "Sessions rehydrated from durable storage."},
	{ID: goCDEP.MetricSessionRestoreCorrupt, Name: "cdep_session_restore_corrupt_total", Help: "Storage slots discarded as unparseable at boot."},
}

// HistogramDefs is an exported constant or variable used by the dashboard client.
var HistogramDefs = []HistogramDef{
	{ID: goCDEP.MetricRefreshLatency, Name: "cdep_refresh_latency_seconds", Help: "Token refresh latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the dashboard client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the dashboard client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
