// Package config manages application configuration for the missions API.
//
// Configuration is loaded from environment variables with development
// defaults, then checked with Validate, which reports every problem at once:
//
//	cfg, _ := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    // err joins all failures
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: store driver (surrealdb or sqlite) and its connection settings
//   - JWTConfig: token signing and validation keys
//   - RecommenderConfig: recommendation service URL, call timeout, circuit breaker
//   - RateLimitConfig: per-IP request budget
//
// # Environment Variables
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	DB_DRIVER            - surrealdb (default) or sqlite
//	DB_HOST, DB_PORT     - SurrealDB endpoint
//	DB_SQLITE_PATH       - SQLite file (":memory:" for ephemeral)
//	RECOMMENDER_URL      - recommendation service base URL; unset disables it
//	RECOMMENDER_TIMEOUT  - per-call timeout (default: 3s)
//	RATE_LIMIT_REQUESTS  - requests per RATE_LIMIT_WINDOW per client IP
package config
