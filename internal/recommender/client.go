package recommender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/forgo/missions/api/internal/metrics"
)

const (
	breakerName  = "recommender"
	maxBodyBytes = 1 << 20
)

// Failure reasons reported in Result.Reason
const (
	ReasonDisabled    = "disabled"
	ReasonCircuitOpen = "circuit_open"
	ReasonTimeout     = "timeout"
	ReasonTransport   = "transport"
	ReasonStatus      = "bad_status"
	ReasonDecode      = "decode"
)

var errBadStatus = errors.New("unexpected status")

// Config holds recommendation client settings
type Config struct {
	// BaseURL of the scoring service. Empty disables the client.
	BaseURL string
	Timeout time.Duration
	// BreakerTimeout is how long the circuit stays open before probing again
	BreakerTimeout time.Duration
	// BreakerMinRequests is the number of calls observed before the ratio applies
	BreakerMinRequests uint32
	BreakerFailRatio   float64
	HTTPClient         *http.Client
}

// Client calls the external scoring service. It never returns an error:
// every failure becomes a Result with StatusUnavailable.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	cb       *gobreaker.CircuitBreaker[[]Item]
}

// New creates a recommendation client
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = 5
	}
	if cfg.BreakerFailRatio <= 0 {
		cfg.BreakerFailRatio = 0.6
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		timeout: cfg.Timeout,
		http:    httpClient,
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		c.endpoint = base + "/recommend"
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	c.cb = gobreaker.NewCircuitBreaker[[]Item](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("recommender circuit breaker state change",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return c
}

// Enabled reports whether a scoring service is configured
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// Recommend asks the scoring service to rank missions for uc
func (c *Client) Recommend(ctx context.Context, uc UserContext) Result {
	if !c.Enabled() {
		return unavailable(ReasonDisabled, nil)
	}

	start := time.Now()
	items, err := c.cb.Execute(func() ([]Item, error) {
		return c.call(ctx, uc)
	})
	duration := time.Since(start)

	if err != nil {
		reason := classify(err)
		slog.Warn("recommendation service unavailable",
			slog.String("reason", reason),
			slog.String("user_id", uc.UserID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		metrics.RecordRecommenderCall(StatusUnavailable.String(), duration)
		return unavailable(reason, err)
	}

	result := Result{Status: StatusRanked, Items: items}
	if len(items) == 0 {
		result.Status = StatusEmpty
	}
	metrics.RecordRecommenderCall(result.Status.String(), duration)
	return result
}

func (c *Client) call(ctx context.Context, uc UserContext) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(uc)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return decodeItems(raw)
}

// decodeItems accepts {"recommendations": [...]} or a bare array
func decodeItems(raw []byte) ([]Item, error) {
	raw = bytes.TrimSpace(raw)
	var items []Item
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, &decodeError{err}
		}
	} else {
		var env struct {
			Recommendations *[]Item `json:"recommendations"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &decodeError{err}
		}
		if env.Recommendations == nil {
			return nil, &decodeError{errors.New("missing recommendations field")}
		}
		items = *env.Recommendations
	}

	out := items[:0]
	for _, it := range items {
		it.MissionID = strings.TrimSpace(it.MissionID)
		if it.MissionID != "" {
			out = append(out, it)
		}
	}
	return out, nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func classify(err error) string {
	var de *decodeError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ReasonCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, errBadStatus):
		return ReasonStatus
	case errors.As(err, &de):
		return ReasonDecode
	}
	return ReasonTransport
}

func unavailable(reason string, err error) Result {
	return Result{Status: StatusUnavailable, Reason: reason, Err: err}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
