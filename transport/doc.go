// Package transport implements the single outgoing-request choke point of
// the CDEP client as an [net/http.RoundTripper].
//
// # Design
//
// Every request is cloned, tagged with an X-Request-ID, and sent with the
// session's current access token as a bearer credential. A 401 response
// starts the recovery protocol, whose state is an explicit owned struct
// (refreshing flag + ordered waiter queue) rather than package-level
// variables, so the race-free guarantees stay auditable:
//
//   - At most one refresh call is in flight at any time. Requests failing
//     while it runs are enqueued and settled in enqueue order.
//   - Every failed request is replayed at most once, with the token produced
//     by that single refresh. Replays go straight to the base transport and
//     can never re-enter the protocol.
//   - On refresh failure the queue is rejected with the refresh error, the
//     failure policy hook runs (the client forces logout), and the
//     triggering request gets its original 401 response back.
//   - The flag and queue are reset when a wave settles, success or failure,
//     so a later 401 starts a fresh cycle.
//
// A refresh keeps running even if the triggering caller's context is
// cancelled, since other queued requests may be waiting on it; per-view
// cancellation only abandons interest in the result.
package transport
