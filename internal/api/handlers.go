// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/wayfare-io/wayfare/internal/logging"
	"github.com/wayfare-io/wayfare/internal/recommend"
	"github.com/wayfare-io/wayfare/internal/validation"
)

const maxRequestBody = 1 << 20 // 1 MiB

// handleHealth reports service liveness and loaded-artifact stats.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "ok",
		Data:     rt.health(),
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

// handleRecommend serves POST /api/v1/recommendations.
func (rt *Router) handleRecommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req recommend.Request
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request",
			"request body must be valid JSON", err)
		return
	}

	req.RequestID = r.Header.Get(requestIDHeader)

	if err := validation.ValidateStruct(&req); err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, "validation_failed", verr.Error(), nil)
			return
		}
		respondError(w, http.StatusBadRequest, "validation_failed",
			"request failed validation", err)
		return
	}

	resp, err := rt.engine.Recommend(r.Context(), req)
	if err != nil {
		if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			respondError(w, http.StatusGatewayTimeout, "request_timeout",
				"recommendation timed out", err)
			return
		}
		respondError(w, http.StatusBadGateway, "recommendation_failed",
			"could not produce recommendations", err)
		return
	}

	logging.Info().
		Str("request_id", resp.Metadata.RequestID).
		Str("destination", req.Destination).
		Int("candidates", resp.Metadata.Candidates).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation served")

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "ok",
		Data:   resp,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
