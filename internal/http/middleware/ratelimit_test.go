package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitPerClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewLimiterStore(0.001, 2, time.Minute)

	r := gin.New()
	r.GET("/classify", RateLimit(store), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/classify", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status=%d", i, rec.Code)
		}
	}
	rec := do("10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
	if rec := do("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Fatalf("other client throttled: %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RateLimit(nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d", rec.Code)
		}
	}
}

func TestLimiterStoreCleanup(t *testing.T) {
	store := NewLimiterStore(1, 1, time.Nanosecond)
	store.get("a")
	time.Sleep(time.Millisecond)
	store.Cleanup()
	if n := len(store.entries); n != 0 {
		t.Fatalf("entries after cleanup: %d", n)
	}
}
