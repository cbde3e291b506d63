// Package session owns the process-wide authenticated session: the user
// record, the access/refresh token pair, and their durable persistence.
//
// # Design
//
// The [Store] is the single piece of mutable shared state in the client. It
// is mutated only by its own operations (SetSession, SetTokens, Clear); the
// transport and guard layers hold read-only views. Every mutation that
// succeeds is serialized and written to the configured storage backend under
// one well-known slot; at process start the slot is read once, and a corrupt
// or absent slot yields the signed-out state without error.
//
// # What this package must NOT do
//
//   - Perform network I/O. Login and refresh calls live on the root Client.
//   - Cache permission query results; HasPermission reads current state on
//     every call.
//   - Verify token signatures. TokenClaims is an unverified peek for display
//     purposes; validation is the server's job.
package session
