package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/forgo/missions/api/internal/metrics"
	"github.com/forgo/missions/api/internal/model"
)

// IdempotencyHeader carries the client's retry key on mission actions
const IdempotencyHeader = "Idempotency-Key"

// maxReplayBody matches the handlers' request body limit
const maxReplayBody = 1 << 20

// unreplayedHeaders belong to the original exchange, not the stored response
var unreplayedHeaders = map[string]struct{}{
	"X-Request-Id":     {},
	"Content-Encoding": {},
	"Content-Length":   {},
	"Vary":             {},
}

// ReplayCache remembers successful responses to keyed mutations so a client
// retrying a participate or complete call gets the original answer back
// instead of a conflict.
type ReplayCache struct {
	mu      sync.Mutex
	entries map[string]*replayEntry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

type replayEntry struct {
	fingerprint string
	status      int
	header      http.Header
	body        []byte
	expiresAt   time.Time
	inFlight    bool
}

// ReplayConfig holds configuration for the replay cache
type ReplayConfig struct {
	TTL        time.Duration // default 24h
	MaxEntries int           // default 10000
}

// NewReplayCache creates an empty replay cache
func NewReplayCache(cfg ReplayConfig) *ReplayCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	return &ReplayCache{
		entries: make(map[string]*replayEntry),
		ttl:     cfg.TTL,
		max:     cfg.MaxEntries,
		now:     time.Now,
	}
}

// evictLocked drops expired entries, then the oldest ones while over capacity
func (c *ReplayCache) evictLocked() {
	now := c.now()
	for k, e := range c.entries {
		if !e.inFlight && e.expiresAt.Before(now) {
			delete(c.entries, k)
		}
	}
	for len(c.entries) >= c.max {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.entries {
			if e.inFlight {
				continue
			}
			if oldestKey == "" || e.expiresAt.Before(oldest) {
				oldestKey, oldest = k, e.expiresAt
			}
		}
		if oldestKey == "" {
			return
		}
		delete(c.entries, oldestKey)
	}
}

// Len reports the number of cached entries, in flight included
func (c *ReplayCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// captureWriter tees the response so it can be stored
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Keys are scoped to the authenticated user. Only 2xx responses are stored,
// so a failed attempt may be retried with the same key. Reusing a key for a
// different request is rejected with 422; a duplicate arriving while the
// first is still running gets 409.
func Idempotency(cache *ReplayCache) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxReplayBody+1))
			if err != nil {
				model.NewBadRequestError("unreadable request body").WriteJSON(w)
				return
			}
			if len(body) > maxReplayBody {
				model.NewBadRequestError("request body too large").WriteJSON(w)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			scoped := GetUserID(r.Context()) + "\x00" + key
			fp := fingerprint(r.Method, r.URL.Path, body)

			cache.mu.Lock()
			if e, ok := cache.entries[scoped]; ok && (e.inFlight || e.expiresAt.After(cache.now())) {
				prior, inFlight, status := e.fingerprint, e.inFlight, e.status
				header := e.header.Clone()
				stored := append([]byte(nil), e.body...)
				cache.mu.Unlock()
				switch {
				case prior != fp:
					model.NewValidationError([]model.FieldError{{
						Field:   IdempotencyHeader,
						Message: "key was already used for a different request",
					}}).WriteJSON(w)
				case inFlight:
					model.NewConflictError("a request with this idempotency key is in progress").WriteJSON(w)
				default:
					metrics.RecordIdempotentReplay()
					for k, v := range header {
						if _, skip := unreplayedHeaders[k]; skip {
							continue
						}
						w.Header()[k] = v
					}
					w.Header().Set("Idempotent-Replayed", "true")
					w.WriteHeader(status)
					_, _ = w.Write(stored)
				}
				return
			}
			cache.evictLocked()
			entry := &replayEntry{fingerprint: fp, inFlight: true}
			cache.entries[scoped] = entry
			cache.mu.Unlock()

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			completed := false
			defer func() {
				cache.mu.Lock()
				defer cache.mu.Unlock()
				if !completed || cw.status < 200 || cw.status > 299 {
					delete(cache.entries, scoped)
					return
				}
				entry.status = cw.status
				entry.header = cw.Header().Clone()
				entry.body = cw.body.Bytes()
				entry.expiresAt = cache.now().Add(cache.ttl)
				entry.inFlight = false
			}()

			next.ServeHTTP(cw, r)
			completed = true
		})
	}
}
