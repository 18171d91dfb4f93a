// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/wayfare-io/wayfare/internal/config"
	"github.com/wayfare-io/wayfare/internal/recommend"
)

// stubRecommender returns a canned response and records the request it saw.
type stubRecommender struct {
	resp *recommend.Response
	err  error
	got  recommend.Request
}

func (s *stubRecommender) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            8380,
		RateLimitWindow: time.Minute,
	}
}

func emptyResponse() *recommend.Response {
	return &recommend.Response{
		RecommendedSpots: []recommend.ScoredItem{},
		Hotels:           []recommend.ScoredItem{},
		Food:             []recommend.ScoredItem{},
		CulturalEvents:   []recommend.ScoredItem{},
		Metadata: recommend.ResponseMetadata{
			RequestID: "req-1",
			Timestamp: time.Now(),
		},
	}
}

func validBody() string {
	return `{
		"source": "Kozhikode",
		"destination": "Kochi",
		"start_date": "20 Oct 2025",
		"end_date": "25 Oct 2025",
		"veg/non-veg": "Non-Veg"
	}`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var env APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func TestHandleRecommendOK(t *testing.T) {
	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, testServerConfig(), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(validBody()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "ok" {
		t.Errorf("envelope status = %q, want ok", env.Status)
	}
	if stub.got.Destination != "Kochi" || stub.got.Diet != "Non-Veg" {
		t.Errorf("engine saw request %+v", stub.got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
	// The middleware-assigned id is forwarded to the engine.
	if stub.got.RequestID == "" {
		t.Error("request id not propagated to engine")
	}
}

func TestHandleRecommendEchoesClientRequestID(t *testing.T) {
	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, testServerConfig(), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(validBody()))
	req.Header.Set("X-Request-ID", "client-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-42" {
		t.Errorf("X-Request-ID = %q, want client-42", got)
	}
	if stub.got.RequestID != "client-42" {
		t.Errorf("engine request id = %q, want client-42", stub.got.RequestID)
	}
}

func TestHandleRecommendMalformedDatesAccepted(t *testing.T) {
	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, testServerConfig(), nil).Handler()

	// Dates in the wrong layout are not a validation failure; the
	// engine skips the event date filter instead.
	body := `{"source": "Kozhikode", "destination": "Kochi", "start_date": "2025-10-20", "end_date": "25 Oct 2025"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if stub.got.StartDate != "2025-10-20" {
		t.Errorf("engine saw start_date %q, want the raw value", stub.got.StartDate)
	}
}

func TestHandleRecommendBadJSON(t *testing.T) {
	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, testServerConfig(), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "invalid_request" {
		t.Errorf("error = %+v, want invalid_request", env.Error)
	}
}

func TestHandleRecommendValidationFailure(t *testing.T) {
	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, testServerConfig(), nil).Handler()

	body := `{"source": "Kozhikode", "destination": "", "start_date": "bad", "end_date": "25 Oct 2025"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "validation_failed" {
		t.Errorf("error = %+v, want validation_failed", env.Error)
	}
}

func TestHandleRecommendEngineFailure(t *testing.T) {
	stub := &stubRecommender{err: fmt.Errorf("encoder down")}
	handler := NewRouter(stub, testServerConfig(), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(validBody()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "recommendation_failed" {
		t.Errorf("error = %+v, want recommendation_failed", env.Error)
	}
}

func TestHandleHealth(t *testing.T) {
	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, testServerConfig(), func() HealthInfo {
		return HealthInfo{Items: 42, GraphNodes: 7, GraphEdges: 9, Encoder: "closed"}
	}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var env struct {
		Status string     `json:"status"`
		Data   HealthInfo `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != "ok" || env.Data.Items != 42 || env.Data.Encoder != "closed" {
		t.Errorf("health = %+v", env)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, testServerConfig(), nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected Prometheus runtime metrics in output")
	}
}

func TestRateLimitEnforced(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = 2

	stub := &stubRecommender{resp: emptyResponse()}
	handler := NewRouter(stub, cfg, nil).Handler()

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
