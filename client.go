package goCDEP

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goCDEP/session"
)

// maxBodyBytes bounds how much of any API response body is read.
const maxBodyBytes = 4 << 20

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the assembled dashboard client. It owns the session store, the
// authorized request pipeline, and the ambient metric/audit plumbing.
// Construct it through [Builder]; the zero value is not usable.
//
// All methods are safe for concurrent use.
type Client struct {
	config  Config
	store   *session.Store
	http    httpDoer // authorized pipeline: bearer token, refresh, replay
	plain   httpDoer // bare pipeline for the auth endpoints themselves
	metrics *Metrics
	audit   *auditDispatcher
}

// Session exposes the session store. The store satisfies the guard
// package's SessionView, so it plugs straight into route gates.
func (c *Client) Session() *session.Store {
	return c.store
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (c *Client) CurrentUser() *User {
	return c.store.CurrentUser()
}

// HasPermission reports whether the signed-in user may perform action on
// module.
func (c *Client) HasPermission(module, action string) bool {
	return c.store.HasPermission(module, action)
}

// Claims returns the unverified claims of the held access token. The second
// return is false when no token is held or it is not a well-formed JWT.
func (c *Client) Claims() (TokenClaims, bool) {
	return c.store.Claims()
}

// MetricsSnapshot returns a point-in-time copy of the client's metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.TakeSnapshot()
}

// AuditDropped reports how many audit events were discarded.
func (c *Client) AuditDropped() uint64 {
	return c.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The client must not be used
// afterwards.
func (c *Client) Close() {
	c.audit.Close()
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.config.API.BaseURL, "/") + path
}

func (c *Client) emit(ctx context.Context, eventType string, success bool, err error, metadata map[string]string) {
	if c.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if user := c.store.CurrentUser(); user != nil {
		event.UserID = user.ID
		event.TenantID = user.TenantID
	}
	c.audit.Emit(ctx, event)
}
