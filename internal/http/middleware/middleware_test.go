package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated X-Request-ID")
	}
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-id-1" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("expected JSON envelope, got %s", w.Body.String())
	}
}

func TestRateLimiter_EnforcesBurst(t *testing.T) {
	rl := NewRateLimiter(0, 2, KeyByUserOrIP())
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("burst requests rejected: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %v", codes)
	}
}

func TestRateLimiter_KeysAreIsolated(t *testing.T) {
	rl := NewRateLimiter(0, 1, KeyByUserOrIP())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if u := c.Query("u"); u != "" {
			c.Set("userID", u)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(user string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?u="+user, nil))
		return w.Code
	}

	if do("a") != http.StatusOK {
		t.Fatal("first request for user a should pass")
	}
	if do("a") != http.StatusTooManyRequests {
		t.Fatal("second request for user a should be limited")
	}
	if do("b") != http.StatusOK {
		t.Fatal("user b must not share user a's bucket")
	}
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(SecurityOptions{EnablePolicy: true}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	h := w.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("nosniff missing: %v", h)
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Fatalf("frame options missing: %v", h)
	}
	if !strings.Contains(h.Get("Permissions-Policy"), "camera=(self)") {
		t.Fatalf("camera permission must stay same-origin: %q", h.Get("Permissions-Policy"))
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS must not be emitted when disabled")
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Plain HTTP: no HSTS.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS emitted over plain HTTP")
	}

	// Behind a TLS-terminating proxy.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Strict-Transport-Security"); !strings.Contains(got, "max-age=3600") {
		t.Fatalf("HSTS = %q", got)
	}
}

func TestMaskHeader(t *testing.T) {
	if got := MaskHeader("Authorization", "Bearer sk-secret"); got != "[REDACTED]" {
		t.Fatalf("Authorization not masked: %q", got)
	}
	if got := MaskHeader("Cookie", "session=abc"); got != "[REDACTED]" {
		t.Fatalf("Cookie not masked: %q", got)
	}
	if got := MaskHeader("Accept", "application/json"); got != "application/json" {
		t.Fatalf("Accept mangled: %q", got)
	}
}

func TestScrub_RedactsUUIDsAndEmails(t *testing.T) {
	in := "user ania@example.com session 123e4567-e89b-12d3-a456-426614174000 ok"
	got := scrub(in)
	if strings.Contains(got, "ania@example.com") {
		t.Fatalf("email not scrubbed: %q", got)
	}
	if strings.Contains(got, "123e4567") {
		t.Fatalf("uuid not scrubbed: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate disabled = %q", got)
	}
}
