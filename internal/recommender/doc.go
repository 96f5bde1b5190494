// Package recommender is the client for the external mission scoring service.
//
// Recommend posts a UserContext to {base}/recommend and returns a Result that
// is either ranked, empty, or unavailable. Timeouts, non-2xx responses,
// undecodable bodies and an open circuit breaker all become unavailable; the
// caller decides how to degrade.
package recommender
