package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduevent/config"
	"eduevent/internal/domain"
)

func TestRateLimit_PassThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	unreachable := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = unreachable.Close() })

	tests := []struct {
		name string
		cfg  config.RateLimitConfig
		rdb  redis.Scripter
	}{
		{"disabled", config.RateLimitConfig{Enabled: false, Capacity: 1}, unreachable},
		{"no client", config.RateLimitConfig{Enabled: true, Capacity: 1}, nil},
		{"redis down fails open", config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}, unreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			handler := RateLimit(tt.cfg, tt.rdb, logger)(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(http.StatusCreated)
			})
			for range 3 {
				rr := httptest.NewRecorder()
				handler(rr, httptest.NewRequest(http.MethodPost, "/events/e1/registrations", nil))
				require.Equal(t, http.StatusCreated, rr.Code)
			}
			assert.Equal(t, 3, calls)
		})
	}
}

func TestRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/events/e1/registrations", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "rl:ip:10.0.0.7:POST /events/e1/registrations", rateLimitKey("rl", req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "rl:ip:203.0.113.9:POST /events/e1/registrations", rateLimitKey("rl", req))

	req = req.WithContext(SetPrincipal(req.Context(), &domain.Principal{UserID: "u1"}))
	req.Pattern = "POST /events/{eventID}/registrations"
	assert.Equal(t, "rl:user:u1:POST /events/{eventID}/registrations", rateLimitKey("rl", req))
}
