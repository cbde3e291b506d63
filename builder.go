package goCDEP

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goCDEP/session"
	"github.com/MrEthical07/goCDEP/storage"
	"github.com/MrEthical07/goCDEP/transport"
)

// Builder assembles a [Client] step by step. Every With* call returns the
// builder for chaining; Build wires the pieces together and restores any
// persisted session.
type Builder struct {
	config     Config
	httpClient *http.Client
	storage    storage.Backend
	auditSink  AuditSink
	built      bool
}

// New starts a builder with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the API origin.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient supplies the underlying HTTP client. Its transport becomes
// the base of the authorized pipeline; its timeout is respected. Nil keeps
// the default.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithStorage supplies the durable session backend. Nil keeps the in-memory
// backend, which forgets the session at process exit.
func (b *Builder) WithStorage(backend storage.Backend) *Builder {
	b.storage = backend
	return b
}

// WithAuditSink supplies the audit sink and enables audit dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles refresh latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires the session store, transport,
// metrics, and audit dispatcher together, and restores any persisted
// session. A corrupt storage slot yields a signed-out client, never an
// error. The builder must not be reused after a successful Build.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrClientNotReady
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	base := b.httpClient
	if base == nil {
		base = &http.Client{Timeout: b.config.API.Timeout}
	}

	store := session.NewStore(b.storage)

	client := &Client{
		config:  b.config,
		store:   store,
		plain:   base,
		metrics: NewMetrics(b.config.Metrics),
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink),
	}

	tr, err := transport.New(transport.Config{
		Base:             base.Transport,
		Session:          store,
		Refresher:        client,
		OnRefreshFailure: client.forceLogout,
		Hooks: transport.Hooks{
			Unauthorized: func() { client.metrics.Inc(MetricRequestUnauthorized) },
			Queued:       func() { client.metrics.Inc(MetricRequestQueued) },
			Retried:      func() { client.metrics.Inc(MetricRequestRetried) },
		},
	})
	if err != nil {
		client.audit.Close()
		return nil, err
	}
	client.http = &http.Client{Transport: tr, Timeout: base.Timeout}

	ctx := context.Background()
	switch store.Restore(ctx) {
	case session.RestoreOK:
		client.metrics.Inc(MetricSessionRestored)
		client.emit(ctx, EventSessionRestored, true, nil, nil)
	case session.RestoreCorrupt:
		client.metrics.Inc(MetricSessionRestoreCorrupt)
		client.emit(ctx, EventSessionRestoreCorrupt, false, nil, nil)
	}

	b.built = true
	return client, nil
}
