// Package middleware provides HTTP middleware for the missions API.
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: structured access log via slog
//   - Recovery: converts panics into a 500 problem response
//   - Metrics: Prometheus request count and latency per chi route pattern
//   - Auth / OptionalAuth: bearer token validation
//   - Idempotency: replays stored responses for a repeated Idempotency-Key
//
// CORS, rate limiting and compression come from go-chi packages and are
// installed by the server.
//
// After authentication, handlers read the caller with:
//
//	userID := middleware.GetUserID(r.Context())
package middleware
