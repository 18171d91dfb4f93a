// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wayfare-io/wayfare/internal/logging"
	"github.com/wayfare-io/wayfare/internal/metrics"
)

// requestIDHeader propagates request identity for tracing.
const requestIDHeader = "X-Request-ID"

// requestID assigns a request ID when the client did not supply one and
// echoes it back on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// instrument emits an access log line and Prometheus metrics per request.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		metrics.RecordAPIRequest(r.Method, r.URL.Path, rec.status, duration)

		logging.Debug().
			Str("request_id", r.Header.Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", duration).
			Msg("request")
	})
}
