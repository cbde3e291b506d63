// Package storage provides the durable single-slot persistence contract for
// session state: one key holding one serialized blob, read once at process
// start, overwritten on every session mutation, cleared on logout.
//
// # Architecture boundaries
//
// This package owns slot I/O only. It never inspects blob contents; encoding
// and corruption policy belong to the session package.
//
// # What this package must NOT do
//
//   - Interpret or validate the stored bytes.
//   - Retry or queue writes; callers decide failure policy.
package storage
