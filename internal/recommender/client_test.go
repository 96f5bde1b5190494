package recommender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: 200 * time.Millisecond})
}

func TestRecommend_Envelope(t *testing.T) {
	var got UserContext
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recommend", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"recommendations":[
			{"mission_id":"M003","model_proba":0.91,"final_score":1.7,"distance_m":420},
			{"mission_id":"M001"}
		]}`))
	})

	res := c.Recommend(context.Background(), UserContext{UserID: "U0001", TopK: 5, DayOfWeek: 2, Weather: "clear"})

	require.Equal(t, StatusRanked, res.Status)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "M003", res.Items[0].MissionID)
	require.NotNil(t, res.Items[0].ModelProba)
	assert.InDelta(t, 0.91, *res.Items[0].ModelProba, 1e-9)
	require.NotNil(t, res.Items[0].DistanceM)
	assert.InDelta(t, 420, *res.Items[0].DistanceM, 1e-9)
	assert.Nil(t, res.Items[1].FinalScore)

	assert.Equal(t, "U0001", got.UserID)
	assert.Equal(t, 5, got.TopK)
	assert.Equal(t, 2, got.DayOfWeek)
}

func TestRecommend_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"mission_id":"mission-5"},{"mission_id":"  "}]`))
	})

	res := c.Recommend(context.Background(), UserContext{UserID: "U0001"})

	require.Equal(t, StatusRanked, res.Status)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "mission-5", res.Items[0].MissionID)
}

func TestRecommend_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recommendations":[]}`))
	})

	res := c.Recommend(context.Background(), UserContext{UserID: "U0001"})

	assert.Equal(t, StatusEmpty, res.Status)
	assert.Empty(t, res.Items)
	assert.NoError(t, res.Err)
}

func TestRecommend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		reason  string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			reason: ReasonStatus,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"recommendations":`))
			},
			reason: ReasonDecode,
		},
		{
			name: "missing envelope field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"ids":["M001"]}`))
			},
			reason: ReasonDecode,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			reason: ReasonTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			res := c.Recommend(context.Background(), UserContext{UserID: "U0001"})

			assert.Equal(t, StatusUnavailable, res.Status)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Error(t, res.Err)
			assert.Empty(t, res.Items)
		})
	}
}

func TestRecommend_Disabled(t *testing.T) {
	c := New(Config{})

	assert.False(t, c.Enabled())
	res := c.Recommend(context.Background(), UserContext{UserID: "U0001"})
	assert.Equal(t, StatusUnavailable, res.Status)
	assert.Equal(t, ReasonDisabled, res.Reason)
}

func TestRecommend_CircuitOpens(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{
		BaseURL:            srv.URL,
		Timeout:            time.Second,
		BreakerTimeout:     time.Minute,
		BreakerMinRequests: 3,
		BreakerFailRatio:   0.5,
	})

	for i := 0; i < 3; i++ {
		res := c.Recommend(context.Background(), UserContext{UserID: "U0001"})
		assert.Equal(t, ReasonStatus, res.Reason)
	}

	res := c.Recommend(context.Background(), UserContext{UserID: "U0001"})
	assert.Equal(t, StatusUnavailable, res.Status)
	assert.Equal(t, ReasonCircuitOpen, res.Reason)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ranked", StatusRanked.String())
	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "unavailable", StatusUnavailable.String())
}
