package goCDEP

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates with the API and, on success, installs the normalized
// user and token pair into the session store atomically. A 400/401 response
// surfaces as [ErrInvalidCredentials] carrying the server's message; the
// session is left untouched on every failure path.
func (c *Client) Login(ctx context.Context, email, password string) error {
	status, raw, err := c.postJSON(ctx, c.plain, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		loginErr := ErrInvalidCredentials
		if msg := serverMessage(raw); msg != "" {
			loginErr = fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		}
		c.metrics.Inc(MetricLoginFailure)
		c.emit(ctx, EventLoginFailed, false, loginErr, map[string]string{"email": email})
		return loginErr
	}
	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status, Message: serverMessage(raw)}
		c.metrics.Inc(MetricLoginFailure)
		c.emit(ctx, EventLoginFailed, false, apiErr, map[string]string{"email": email})
		return apiErr
	}

	user, accessToken, refreshToken, err := normalizeAuthResponse(raw)
	if err == nil && (accessToken == "" || refreshToken == "") {
		err = fmt.Errorf("%w: login response missing tokens", ErrMalformedResponse)
	}
	if err != nil {
		c.metrics.Inc(MetricLoginFailure)
		c.emit(ctx, EventLoginFailed, false, err, nil)
		return err
	}

	if err := c.store.SetSession(ctx, user, accessToken, refreshToken); err != nil {
		return err
	}

	c.metrics.Inc(MetricLoginSuccess)
	c.emit(ctx, EventLogin, true, nil, nil)
	return nil
}

// Logout clears the in-memory session and the durable slot. Purely local:
// no network round-trip, effect is immediate.
func (c *Client) Logout(ctx context.Context) error {
	c.emit(ctx, EventLogout, true, nil, nil)
	err := c.store.Clear(ctx)
	c.metrics.Inc(MetricLogout)
	return err
}

// RefreshTokens exchanges the held refresh token for a new token pair and
// persists it, leaving the user identity untouched. It returns the new
// access token for the transport to replay with. It does not clear the
// session on failure; that policy belongs to the transport's failure hook.
func (c *Client) RefreshTokens(ctx context.Context) (string, error) {
	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		c.metrics.Inc(MetricRefreshFailure)
		c.emit(ctx, EventRefreshFailed, false, ErrNoRefreshToken, nil)
		return "", ErrNoRefreshToken
	}

	start := time.Now()
	status, raw, err := c.postJSON(ctx, c.plain, "/auth/refresh", refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.emit(ctx, EventRefreshFailed, false, err, nil)
		return "", err
	}

	if status < 200 || status >= 300 {
		refreshErr := fmt.Errorf("%w: status %d", ErrRefreshRejected, status)
		if msg := serverMessage(raw); msg != "" {
			refreshErr = fmt.Errorf("%w: %s", ErrRefreshRejected, msg)
		}
		c.metrics.Inc(MetricRefreshFailure)
		c.emit(ctx, EventRefreshFailed, false, refreshErr, nil)
		return "", refreshErr
	}

	_, accessToken, newRefreshToken, err := normalizeAuthResponse(raw)
	if err == nil && (accessToken == "" || newRefreshToken == "") {
		err = fmt.Errorf("%w: refresh response missing tokens", ErrMalformedResponse)
	}
	if err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.emit(ctx, EventRefreshFailed, false, err, nil)
		return "", err
	}

	if err := c.store.SetTokens(ctx, accessToken, newRefreshToken); err != nil {
		return "", err
	}

	c.metrics.Inc(MetricRefreshSuccess)
	c.metrics.Observe(MetricRefreshLatency, time.Since(start))
	c.emit(ctx, EventRefresh, true, nil, nil)
	return accessToken, nil
}

// forceLogout is the transport's refresh-failure policy: a rejected refresh
// token means the session cannot be recovered, so it is torn down locally.
func (c *Client) forceLogout(cause error) {
	ctx := context.Background()
	c.emit(ctx, EventLogout, true, cause, map[string]string{"reason": "refresh_failed"})
	_ = c.store.Clear(ctx)
	c.metrics.Inc(MetricLogout)
}

// postJSON sends body to path through the given pipeline and returns the
// status and the (bounded) response body. Transport-level failures are
// wrapped in [ErrAPIUnavailable].
func (c *Client) postJSON(ctx context.Context, doer httpDoer, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.API.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.API.UserAgent)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	return resp.StatusCode, raw, nil
}
