package goCDEP

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Projects lists the projects visible to the signed-in user. The API scopes
// the result by tenant and role; the client sends no tenant hint.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	out := []Project{}
	if err := c.getList(ctx, "/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Allocations lists the signed-in user's visible time allocations.
func (c *Client) Allocations(ctx context.Context) ([]Allocation, error) {
	out := []Allocation{}
	if err := c.getList(ctx, "/allocations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyTimesheets lists the signed-in user's submitted timesheets.
func (c *Client) MyTimesheets(ctx context.Context) ([]Timesheet, error) {
	out := []Timesheet{}
	if err := c.getList(ctx, "/timesheets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectRisks fetches the server-computed risk indicator feed.
func (c *Client) ProjectRisks(ctx context.Context) ([]ProjectRisk, error) {
	out := []ProjectRisk{}
	if err := c.getList(ctx, "/timesheets/risk/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTimesheet submits a new timesheet entry and returns the created
// record as the server stored it.
func (c *Client) CreateTimesheet(ctx context.Context, input TimesheetInput) (*Timesheet, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/timesheets", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	body, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, err
	}
	var created Timesheet
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &created, nil
}

func (c *Client) getList(ctx context.Context, path string, dst any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeList(raw, dst)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.config.API.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.API.UserAgent)
	}
	return req, nil
}

// do dispatches req through the authorized pipeline and returns the bounded
// response body. Non-2xx statuses become [APIError]; by the time one is
// seen here the transport has already exhausted its single refresh-and-retry.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}
	return raw, nil
}
