package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediastore-next/internal/config"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestResolveAllowedOrigin(t *testing.T) {
	if got := resolveAllowedOrigin("https://shop.example.com", []string{"*"}, false); got != "*" {
		t.Fatalf("wildcard without credentials want * got %q", got)
	}
	if got := resolveAllowedOrigin("https://shop.example.com", []string{"*"}, true); got != "https://shop.example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %q", got)
	}
	if got := resolveAllowedOrigin("https://shop.example.com", []string{"https://Shop.Example.Com"}, false); got != "https://shop.example.com" {
		t.Fatalf("origin match should be case-insensitive, got %q", got)
	}
	if got := resolveAllowedOrigin("https://evil.example.com", []string{"https://shop.example.com"}, false); got != "" {
		t.Fatalf("unlisted origin should be rejected, got %q", got)
	}
	if got := resolveAllowedOrigin("", []string{"https://shop.example.com"}, false); got != "" {
		t.Fatalf("missing origin should produce no header, got %q", got)
	}
}

func TestCORSMiddlewareExposesSessionKey(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin want * got %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != "X-Session-Key, X-Request-ID" {
		t.Fatalf("expose headers mismatch: %q", got)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{MaxAge: 600}))
	r.POST("/cart/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/cart/items", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("max age want 600 got %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, getRequestID(c)) })

	// 未携带请求 ID 时生成新的
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get("X-Request-ID")
	if generated == "" || w.Body.String() != generated {
		t.Fatalf("generated request id should be echoed, header=%q body=%q", generated, w.Body.String())
	}

	// 已携带时原样透传
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("request id want req-42 got %q", got)
	}
}

func TestAdminTokenMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(AdminTokenMiddleware("top-secret"))
	r.GET("/admin/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic top-secret"},
		{"wrong token", "Bearer nope"},
		{"valid token", "Bearer top-secret"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if tc.name == "valid token" {
			if w.Code != http.StatusOK {
				t.Fatalf("%s: status want 200 got %d", tc.name, w.Code)
			}
			continue
		}
		var body struct {
			StatusCode int `json:"status_code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body failed: %v", tc.name, err)
		}
		if body.StatusCode != 401 {
			t.Fatalf("%s: envelope status want 401 got %d", tc.name, body.StatusCode)
		}
	}
}

func TestRecoveryMiddlewareReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var body struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v (body %s)", err, w.Body.String())
	}
	if body.StatusCode != 500 {
		t.Fatalf("panic should map to envelope 500, got %d", body.StatusCode)
	}
}

func TestAdminTokenMiddlewareUnconfigured(t *testing.T) {
	r := gin.New()
	r.Use(AdminTokenMiddleware(""))
	r.GET("/admin/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != 401 {
		t.Fatalf("unconfigured token should reject, got %d", body.StatusCode)
	}
}
