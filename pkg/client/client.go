// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package client calls a crack-time estimation service over HTTP.
//
// Every operation is exactly one request. The client never retries, caches or substitutes
// values; any failure comes back as an *Error whose message is fit for display.
package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout  = 30 * time.Second
	RequestIDHeader = "X-Request-ID"
	userAgent       = "crack-time-client/1.0"
)

type Client struct {
	baseURL         string
	http            *retryablehttp.Client
	validate        *validator.Validate
	checkInvariants bool
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. to use a test server's client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http.HTTPClient = hc
	}
}

// WithTimeout bounds each request, including reading the response body. The http.Client is
// copied first, so a client given to WithHTTPClient keeps its own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http.HTTPClient
		hc.Timeout = d
		c.http.HTTPClient = &hc
	}
}

// WithInvariantChecks validates every response against the estimate invariants (nullity,
// winning attack, decomposition tiling, batch summary) and fails with KindContract on a
// violation.
func WithInvariantChecks(enabled bool) Option {
	return func(c *Client) {
		c.checkInvariants = enabled
	}
}

// New creates a client for the service at baseURL, e.g. "http://localhost:8000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid service url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     initHttpClient(),
		validate: newValidator(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func initHttpClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{}

	// One attempt per call. Retrying is left to whoever wraps the client.
	client.RetryMax = 0
	// Hand failed responses back untouched, their body carries the service's message.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.HTTPClient = &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}

	return client
}

// do sends one request and decodes a successful body into out. out must be a pointer to a
// wire type or a slice of them.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body any
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindNetwork, Message: fmt.Sprintf("could not encode request: %s", err), Err: err}
		}
		body = raw
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return networkError(err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	timer := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Msgf("%s %s failed", method, path)
		return networkError(err)
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing body for %s", path)
		}
	}(res.Body)

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return networkError(err)
	}

	log.Debug().
		Str("request_id", requestID).
		Int("status", res.StatusCode).
		Int64("elapsed_ms", time.Since(timer).Milliseconds()).
		Msgf("%s %s", method, path)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return serviceError(res.StatusCode, resBody)
	}

	if err = json.Unmarshal(resBody, out); err != nil {
		return contractErrorWithStatus(res.StatusCode, fmt.Errorf("malformed response: %w", err))
	}

	return nil
}

func (c *Client) checkEstimate(w wireEstimate) (estimate.EstimateResponse, error) {
	if err := checkShape(c.validate, w); err != nil {
		return estimate.EstimateResponse{}, contractErrorWithStatus(http.StatusOK, err)
	}

	r := w.toEstimate()
	if c.checkInvariants {
		if err := r.Validate(); err != nil {
			return estimate.EstimateResponse{}, contractErrorWithStatus(http.StatusOK, err)
		}
	}

	return r, nil
}

// leveledLogger sends the transport's own messages to zerolog.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Error().Fields(keysAndValues).Msg(msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.Trace().Fields(keysAndValues).Msg(msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warn().Fields(keysAndValues).Msg(msg)
}
