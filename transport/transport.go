package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerPrefix        = "Bearer "
)

// ErrNoSessionSource is an exported constant or variable used by the dashboard client.
var ErrNoSessionSource = errors.New("transport requires a session source")

// ErrNoRefresher is an exported constant or variable used by the dashboard client.
var ErrNoRefresher = errors.New("transport requires a refresher")

// SessionSource supplies the current access token before each dispatch.
type SessionSource interface {
	AccessToken() string
}

// Refresher exchanges the held refresh token for a new access token. It is
// implemented by the root client; the transport never touches session fields
// directly.
type Refresher interface {
	RefreshTokens(ctx context.Context) (string, error)
}

// Hooks are optional observation points. Nil fields are skipped.
type Hooks struct {
	Unauthorized func()
	Queued       func()
	Retried      func()
}

// Config assembles a [Transport].
type Config struct {
	// Base is the underlying transport; nil falls back to
	// http.DefaultTransport. Any timeout policy belongs to it.
	Base http.RoundTripper

	Session   SessionSource
	Refresher Refresher

	// OnRefreshFailure runs exactly once per failed refresh wave. The
	// client's policy is to force logout: a dead refresh token means the
	// session is no longer recoverable.
	OnRefreshFailure func(error)

	Hooks Hooks
}

type outcome struct {
	token string
	err   error
}

// Transport is the authorized request pipeline. Safe for concurrent use.
type Transport struct {
	base             http.RoundTripper
	session          SessionSource
	refresher        Refresher
	onRefreshFailure func(error)
	hooks            Hooks

	mu         sync.Mutex
	refreshing bool
	waiters    []chan outcome
}

// New validates cfg and builds a [Transport].
func New(cfg Config) (*Transport, error) {
	if cfg.Session == nil {
		return nil, ErrNoSessionSource
	}
	if cfg.Refresher == nil {
		return nil, ErrNoRefresher
	}

	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		base:             base,
		session:          cfg.Session,
		refresher:        cfg.Refresher,
		onRefreshFailure: cfg.OnRefreshFailure,
		hooks:            cfg.Hooks,
	}, nil
}

// RoundTrip implements [net/http.RoundTripper].
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	t.decorate(out, t.session.AccessToken())

	resp, err := t.base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if t.hooks.Unauthorized != nil {
		t.hooks.Unauthorized()
	}

	// A consumed one-shot body cannot be replayed; propagate the failure.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	return t.recover(req, resp)
}

// recover runs the authorization-failure protocol for req, whose first
// attempt produced the 401 in failed.
func (t *Transport) recover(req *http.Request, failed *http.Response) (*http.Response, error) {
	t.mu.Lock()
	if t.refreshing {
		ch := make(chan outcome, 1)
		t.waiters = append(t.waiters, ch)
		t.mu.Unlock()

		if t.hooks.Queued != nil {
			t.hooks.Queued()
		}
		discard(failed)

		select {
		case settled := <-ch:
			if settled.err != nil {
				return nil, fmt.Errorf("refresh failed: %w", settled.err)
			}
			return t.replay(req, settled.token)
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	t.refreshing = true
	t.mu.Unlock()

	// The refresh outlives the triggering caller: queued requests depend on
	// its outcome, so cancellation only abandons interest in the result.
	token, err := t.refresher.RefreshTokens(context.WithoutCancel(req.Context()))
	t.settle(token, err)

	if err != nil {
		if t.onRefreshFailure != nil {
			t.onRefreshFailure(err)
		}
		// The triggering caller sees its original failure, not a
		// refresh-specific one.
		return failed, nil
	}

	discard(failed)
	return t.replay(req, token)
}

// settle clears the in-flight flag and resolves every waiter in enqueue
// order. It runs on both success and failure paths so a later 401 can start
// a fresh cycle.
func (t *Transport) settle(token string, err error) {
	t.mu.Lock()
	waiters := t.waiters
	t.waiters = nil
	t.refreshing = false
	t.mu.Unlock()

	for _, ch := range waiters {
		ch <- outcome{token: token, err: err}
	}
}

// replay re-issues req exactly once with the refreshed token. It dispatches
// on the base transport directly: a replayed request that fails
// authorization again is never retried.
func (t *Transport) replay(req *http.Request, token string) (*http.Response, error) {
	out := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		out.Body = body
	}
	t.decorate(out, token)

	if t.hooks.Retried != nil {
		t.hooks.Retried()
	}
	return t.base.RoundTrip(out)
}

func (t *Transport) decorate(req *http.Request, token string) {
	if token != "" {
		req.Header.Set(headerAuthorization, bearerPrefix+token)
	}
	req.Header.Set(headerRequestID, uuid.NewString())
}

func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
