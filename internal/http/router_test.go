package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zurekai/zurekai/internal/ai"
	"github.com/zurekai/zurekai/internal/config"
	"github.com/zurekai/zurekai/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProvider answers every completion with a fixed reply.
type stubProvider struct {
	reply string
	calls int
}

func (s *stubProvider) Chat(ctx context.Context, msgs []ai.Message) (string, error) {
	s.calls++
	return s.reply, nil
}

func testConfig() config.Config {
	return config.Config{
		Port:        "0",
		APIBasePath: "/api",
		ChatNameLen: 20,
		RateRPS:     1000,
		RateBurst:   1000,
		Security: config.SecurityConfig{
			EnableHSTS: false,
		},
	}
}

func newTestApp(t *testing.T, provider ai.Provider) *gin.Engine {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("router_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r, db, provider, testConfig())
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFullFlow_RegisterLoginRelaySaveList(t *testing.T) {
	sp := &stubProvider{reply: "Słonecznie."}
	r := newTestApp(t, sp)

	// Register
	w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{"username": "ania", "password": "sekret"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	// Login
	w = doJSON(t, r, http.MethodPost, "/api/login", gin.H{"username": "ania", "password": "sekret"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var login struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil || login.UserID <= 0 {
		t.Fatalf("login body: %s (err %v)", w.Body.String(), err)
	}

	// Relay
	w = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"text": "jaka jest pogoda"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("relay: %d %s", w.Code, w.Body.String())
	}
	var relay struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &relay); err != nil || relay.Reply != "Słonecznie." {
		t.Fatalf("relay body: %s", w.Body.String())
	}
	if sp.calls != 1 {
		t.Fatalf("provider called %d times", sp.calls)
	}

	// Save the conversation the way the client does.
	w = doJSON(t, r, http.MethodPost, "/api/chats", gin.H{
		"id":     "1700000000000",
		"userId": login.UserID,
		"messages": []gin.H{
			{"role": "user", "content": "jaka jest pogoda"},
			{"role": "ai", "content": relay.Reply},
		},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: %d %s", w.Code, w.Body.String())
	}

	// List
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/chats/%d", login.UserID), nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	var chats []domain.Chat
	if err := json.Unmarshal(w.Body.Bytes(), &chats); err != nil {
		t.Fatalf("list body: %v", err)
	}
	if len(chats) != 1 || chats[0].Name != "jaka jest pogoda" || len(chats[0].Messages) != 2 {
		t.Fatalf("unexpected chats: %+v", chats)
	}
}

func TestFullFlow_CreatorOverrideNeverCallsProvider(t *testing.T) {
	sp := &stubProvider{reply: "should not be used"}
	r := newTestApp(t, sp)

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"text": "kto stworzył ciebie?"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("relay: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Żurek") {
		t.Fatalf("expected the fixed creator reply, got %s", w.Body.String())
	}
	if sp.calls != 0 {
		t.Fatalf("provider was called %d times for an override question", sp.calls)
	}
}

func TestListChats_ETagRoundTrip(t *testing.T) {
	r := newTestApp(t, &stubProvider{reply: "ok"})

	// Seed one user and one chat through the API.
	w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{"username": "marek", "password": "pw"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/login", gin.H{"username": "marek", "password": "pw"}, nil)
	var login struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("login body: %v", err)
	}
	w = doJSON(t, r, http.MethodPost, "/api/chats", gin.H{
		"id": "c1", "userId": login.UserID,
		"messages": []gin.H{{"role": "user", "content": "hej"}},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: %d", w.Code)
	}

	path := fmt.Sprintf("/api/chats/%d", login.UserID)
	w = doJSON(t, r, http.MethodGet, path, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first list: %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag on the chat list")
	}

	w = doJSON(t, r, http.MethodGet, path, nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("expected 304 with matching If-None-Match, got %d", w.Code)
	}
}

func TestDeleteChat_IdempotentOverHTTP(t *testing.T) {
	r := newTestApp(t, &stubProvider{reply: "ok"})

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodDelete, "/api/chats/never-existed", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("delete #%d: %d %s", i+1, w.Code, w.Body.String())
		}
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	r := newTestApp(t, &stubProvider{reply: "ok"})

	w := doJSON(t, r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatal("metrics output missing http_requests_total")
	}
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	r := newTestApp(t, &stubProvider{reply: "ok"})

	w := doJSON(t, r, http.MethodGet, "/api/nope", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("expected JSON envelope, got %s", w.Body.String())
	}
}

func TestRootServesEmbeddedClient(t *testing.T) {
	r := newTestApp(t, &stubProvider{reply: "ok"})

	w := doJSON(t, r, http.MethodGet, "/", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<html") {
		t.Fatal("expected the client index page")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	r := newTestApp(t, &stubProvider{reply: "ok"})

	w := doJSON(t, r, http.MethodGet, "/health", nil, map[string]string{"X-Request-ID": "req-123"})
	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}
