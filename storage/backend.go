package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when the slot holds no session.
var ErrNotFound = errors.New("session slot not found")

// ErrRedisUnavailable is an exported constant or variable used by the dashboard client.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Backend is a durable key-value slot holding one serialized session.
// Implementations must tolerate concurrent calls.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}
