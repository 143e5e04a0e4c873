// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, compression, and rate limiting, and serves the
// embedded browser client alongside the JSON API.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/zurekai/zurekai/internal/ai"
	"github.com/zurekai/zurekai/internal/config"
	"github.com/zurekai/zurekai/internal/http/handlers"
	"github.com/zurekai/zurekai/internal/http/middleware"
	"github.com/zurekai/zurekai/internal/services"
	"github.com/zurekai/zurekai/web"
)

// meteredProvider wraps an ai.Provider and counts every call that leaves the
// process in the relay_outbound_requests_total metric. The relay service's
// creator-override short-circuits before the provider, so override hits never
// reach this wrapper.
type meteredProvider struct {
	inner ai.Provider
}

// Chat proxies to the wrapped provider and records the outcome.
func (m meteredProvider) Chat(ctx context.Context, msgs []ai.Message) (string, error) {
	reply, err := m.inner.Chat(ctx, msgs)
	if err != nil {
		middleware.CountRelayOutbound("error")
		return "", err
	}
	middleware.CountRelayOutbound("ok")
	return reply, nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, mounts the public
// API under cfg.APIBasePath, and serves the embedded browser client for
// everything else.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, provider ai.Provider, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses; /metrics stays uncompressed for scrapers
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks: API paths get JSON errors, everything else falls through to
	// the embedded client so deep links load index.html.
	apiBase := cfg.APIBasePath // e.g. "/api"
	staticFS := web.FS()
	r.NoRoute(func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path, apiBase) || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
			return
		}
		serveClient(c, staticFS)
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db/provider
	authSvc := services.NewAuthService(db)
	chatSvc := services.NewChatService(db)
	chatSvc.NameMaxLen = cfg.ChatNameLen
	relaySvc := services.NewRelayService(meteredProvider{inner: provider})
	h := handlers.New(authSvc, chatSvc, relaySvc)

	// Public API
	api := groupWithPrefix(r, apiBase)
	{
		// Accounts
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)

		// Chats
		api.GET("/chats/:userId", h.ListChats)
		api.POST("/chats", h.SaveChat)
		api.DELETE("/chats/:id", h.DeleteChat)

		// Relay
		api.POST("/chat", h.Relay)
	}
}

// isAPIPath reports whether path falls under the API base prefix.
func isAPIPath(path, base string) bool {
	if base == "" || base == "/" {
		return false
	}
	return path == base || strings.HasPrefix(path, base+"/")
}

// serveClient serves a file from the embedded client, defaulting to
// index.html for unknown paths so client-side state restores on reload.
func serveClient(c *gin.Context, fsys fs.FS) {
	p := strings.TrimPrefix(c.Request.URL.Path, "/")
	if p == "" {
		p = "index.html"
	}
	if _, err := fs.Stat(fsys, p); err != nil {
		p = "index.html"
	}
	if p == "index.html" {
		// http.FileServer redirects explicit index.html paths; serve it directly.
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", b)
		return
	}
	c.FileFromFS(p, http.FS(fsys))
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
