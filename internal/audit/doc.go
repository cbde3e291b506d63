// Package audit defines the session lifecycle event model and the sinks that
// receive it. Dispatching (buffering, backpressure) lives in the root
// package.
package audit
