// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package functions reaches the deployed invite function over HTTP. Function
// deployments drift between environments, so the client walks an ordered list
// of candidate endpoints and treats a 404 as "not deployed here", moving on
// to the next candidate. Any other status, success or failure, is the
// authoritative answer and is returned as is.
package functions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/tracing"
)

const invokePath = "/functions/v1/"

// Outcome is the relayed upstream response.
type Outcome struct {
	Status int
	Body   []byte
}

// ExhaustedError is returned when every candidate answered 404.
type ExhaustedError struct {
	Attempted []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no invite function found, attempted: %s", strings.Join(e.Attempted, ", "))
}

var _ ClientInterface = (*Client)(nil)

type Client struct {
	candidates []string
	apiKey     string
	http       *http.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// NewClient builds the candidate list as the cross product of hosts and
// function names, hosts outermost, preserving configured order.
func NewClient(hosts, names []string, apiKey string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	c := new(Client)
	for _, host := range hosts {
		host = strings.TrimRight(host, "/")
		if host == "" {
			continue
		}
		for _, name := range names {
			if name == "" {
				continue
			}
			c.candidates = append(c.candidates, host+invokePath+name)
		}
	}

	c.apiKey = apiKey
	c.http = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}
	c.tracer = tracer
	c.monitor = monitor
	c.logger = logger

	return c
}

func (c *Client) Candidates() []string {
	return append([]string(nil), c.candidates...)
}

func (c *Client) Invoke(ctx context.Context, payload []byte) (*Outcome, error) {
	ctx, span := c.tracer.Start(ctx, "functions.Client.Invoke")
	defer span.End()

	for _, url := range c.candidates {
		outcome, err := c.post(ctx, url, payload)
		if err != nil {
			return nil, err
		}
		if outcome.Status == http.StatusNotFound {
			// Not deployed under this name or host, keep going.
			c.logger.Debugf("invite function candidate %s answered 404, trying next", url)
			continue
		}
		return outcome, nil
	}

	return nil, &ExhaustedError{Attempted: c.Candidates()}
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (*Outcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	// Candidates are guessed endpoints; only the platform credential may
	// reach them, never a caller's session token.
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invite function request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading invite function response from %s: %w", url, err)
	}

	return &Outcome{Status: resp.StatusCode, Body: body}, nil
}
