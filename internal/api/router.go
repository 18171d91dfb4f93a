// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package api exposes the recommendation engine over HTTP: a chi router
// with CORS, per-IP rate limiting, request-ID propagation, structured
// access logs, and Prometheus instrumentation.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wayfare-io/wayfare/internal/config"
	"github.com/wayfare-io/wayfare/internal/recommend"
)

// Recommender is the engine surface the API needs; satisfied by
// *recommend.Engine and by test doubles.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// HealthInfo reports loaded-artifact statistics on the health endpoint.
type HealthInfo struct {
	Items      int    `json:"items"`
	GraphNodes int    `json:"graph_nodes"`
	GraphEdges int    `json:"graph_edges"`
	Encoder    string `json:"encoder,omitempty"`
}

// Router wires handlers to routes.
type Router struct {
	engine Recommender
	cfg    config.ServerConfig
	health func() HealthInfo
}

// NewRouter creates the API router. The health callback may be nil.
func NewRouter(engine Recommender, cfg config.ServerConfig, health func() HealthInfo) *Router {
	if health == nil {
		health = func() HealthInfo { return HealthInfo{} }
	}
	return &Router{engine: engine, cfg: cfg, health: health}
}

// Handler builds the chi handler tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(instrument)

	if len(rt.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			MaxAge:         300,
		}))
	}

	if rt.cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(rt.cfg.RateLimit, rt.cfg.RateLimitWindow))
	}

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", rt.handleHealth)
		r.Post("/recommendations", rt.handleRecommend)
	})

	return r
}
