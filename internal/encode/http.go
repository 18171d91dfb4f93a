// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package encode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout  = 5 * time.Second
	embedPath       = "/embed"
	contentTypeJSON = "application/json"
)

// HTTPClient is the minimal http client surface, for test doubles.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPEncoderConfig configures the embedding-service client.
type HTTPEncoderConfig struct {
	// BaseURL is the embedding service root, e.g. "http://encoder:8080".
	BaseURL string

	// Timeout bounds a single embed call. Default: 5s.
	Timeout time.Duration

	// FailureThreshold is the consecutive-failure count that opens the
	// circuit breaker. Default: 5.
	FailureThreshold uint32

	// BreakerTimeout is how long the breaker stays open before probing.
	// Default: 30s.
	BreakerTimeout time.Duration
}

// HTTPEncoder calls an external embedding service over HTTP. Calls are
// wrapped in a circuit breaker so a dead encoder fails fast instead of
// stalling every request on its timeout.
type HTTPEncoder struct {
	baseURL string
	client  HTTPClient
	breaker *gobreaker.CircuitBreaker[[]float32]
}

// embedRequest is the wire request: one text in, one vector out.
type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

// NewHTTPEncoder creates an embedding-service client.
func NewHTTPEncoder(cfg HTTPEncoderConfig, client HTTPClient) (*HTTPEncoder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("encoder baseURL required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	breaker := gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:    "query-encoder",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	})

	return &HTTPEncoder{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		breaker: breaker,
	}, nil
}

// Encode implements Encoder.
func (e *HTTPEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	return e.breaker.Execute(func() ([]float32, error) {
		return e.embed(ctx, text)
	})
}

func (e *HTTPEncoder) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Texts: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+embedPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embed call: status %d", resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(decoded.Vectors) != 1 || len(decoded.Vectors[0]) == 0 {
		return nil, fmt.Errorf("embed response: expected 1 non-empty vector, got %d", len(decoded.Vectors))
	}

	return decoded.Vectors[0], nil
}

// BreakerState returns the circuit breaker state for health reporting.
func (e *HTTPEncoder) BreakerState() string {
	return e.breaker.State().String()
}
