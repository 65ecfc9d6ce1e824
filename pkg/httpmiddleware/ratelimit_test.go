package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, build func(r *http.Request)) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/reset", nil)
	r.RemoteAddr = "192.168.1.1:12345"
	if build != nil {
		build(r)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRateLimit_OverLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())

	for i := range 2 {
		w := serve(h, nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}

	w := serve(h, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Equal(t, "rate limit exceeded", body.Message)
}

func TestRateLimit_OnlySelectedRequests(t *testing.T) {
	const header = "X-Till-Passphrase"
	h := RateLimit(RateLimitConfig{
		Max:    1,
		Window: time.Minute,
		Only:   HasHeader(header),
	})(okHandler())

	withPass := func(r *http.Request) { r.Header.Set(header, "guess") }

	assert.Equal(t, http.StatusOK, serve(h, withPass).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, withPass).Code)

	for range 5 {
		w := serve(h, nil)
		assert.Equal(t, http.StatusOK, w.Code, "unselected requests are not limited")
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_Keys(t *testing.T) {
	tests := []struct {
		name  string
		first func(r *http.Request)
		other func(r *http.Request)
		same  bool
	}{
		{
			name:  "remote addr",
			first: func(r *http.Request) { r.RemoteAddr = "10.0.0.1:1" },
			other: func(r *http.Request) { r.RemoteAddr = "10.0.0.2:1" },
		},
		{
			name:  "forwarded for uses first hop",
			first: func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.50, 70.41.3.18") },
			other: func(r *http.Request) {
				r.RemoteAddr = "192.168.1.2:5555"
				r.Header.Set("X-Forwarded-For", "203.0.113.50")
			},
			same: true,
		},
		{
			name:  "real ip",
			first: func(r *http.Request) { r.Header.Set("X-Real-IP", "198.51.100.1") },
			other: func(r *http.Request) { r.Header.Set("X-Real-IP", "198.51.100.2") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

			require.Equal(t, http.StatusOK, serve(h, tt.first).Code)
			require.Equal(t, http.StatusTooManyRequests, serve(h, tt.first).Code)

			want := http.StatusOK
			if tt.same {
				want = http.StatusTooManyRequests
			}
			assert.Equal(t, want, serve(h, tt.other).Code)
		})
	}
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 4, Window: time.Minute})
	start := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	for i := range 4 {
		_, _, ok := rl.allow("k", start.Add(time.Duration(i)*time.Second))
		require.True(t, ok)
	}
	_, _, ok := rl.allow("k", start.Add(10*time.Second))
	require.False(t, ok)

	// Half way through the next window half of the previous count still
	// weighs in.
	_, _, ok = rl.allow("k", start.Add(90*time.Second))
	require.True(t, ok)
	_, _, ok = rl.allow("k", start.Add(90*time.Second))
	require.True(t, ok)
	_, _, ok = rl.allow("k", start.Add(90*time.Second))
	require.False(t, ok)

	rl.cleanup(start.Add(10 * time.Minute))
	assert.Empty(t, rl.entries)
}
