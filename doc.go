// Package goCDEP is the Go client for the CDEP (Client Development &
// Engagement Platform) project-delivery API. It owns the authenticated
// session (user record, access/refresh token pair, durable persistence),
// the authorized request pipeline with transparent single-flight token
// refresh, role-based permission checks, and the route guards consumed by
// a dashboard router.
//
// The package is designed for concurrent client workloads: Client methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goCDEP is the public surface. It exposes [Client], [Builder], [Config], and
// value types (Project, Allocation, Timesheet, ProjectRisk, MetricsSnapshot).
// Session state lives in the session package, durable slots in storage,
// the refresh pipeline in transport, and routing gates in guard. Internal
// coordination (metric storage, audit dispatch) lives under internal/ and
// is never exported.
//
// # What this package must NOT do
//
//   - Reimplement server authority: role and permission definitions, risk
//     scoring, and token minting are owned by the remote API. The client
//     only evaluates already-granted permission data.
//   - Cache permission query results. Every check reads current session
//     state.
//   - Issue more than one concurrent refresh call, or retry any request
//     more than once per authorization-failure wave.
package goCDEP
