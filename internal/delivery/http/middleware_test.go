package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name            string
		origin          string
		allowedOrigins  []string
		want            bool
		wantCredentials bool
	}{
		{"exact match", "https://shop.example.com", []string{"https://shop.example.com"}, true, true},
		{"wildcard match", "https://preview-42.example.com", []string{"https://preview-*"}, true, true},
		{"matches second entry", "http://localhost:3000", []string{"https://shop.example.com", "http://localhost:3000"}, true, true},
		{"allow all without credentials", "https://anything.example.org", []string{"*"}, true, false},
		{"listed origin keeps credentials next to allow all", "https://shop.example.com", []string{"*", "https://shop.example.com"}, true, true},
		{"no match", "http://evil.com", []string{"https://shop.example.com"}, false, false},
		{"empty origin", "", []string{"*"}, false, false},
		{"empty allowed list", "https://shop.example.com", []string{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, credentials := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
			if credentials != tt.wantCredentials {
				t.Errorf("credentials = %v, want %v", credentials, tt.wantCredentials)
			}
		})
	}
}

func TestCORSMiddlewareAllowAll(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"*"}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{"allowed origin - GET request", "https://shop.example.com", http.MethodGet, http.StatusOK, true},
		{"allowed origin - preflight", "https://shop.example.com", http.MethodOptions, http.StatusNoContent, true},
		{"disallowed origin", "http://evil.com", http.MethodGet, http.StatusOK, false},
		{"no origin header", "", http.MethodGet, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"https://shop.example.com"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				if corsHeader != tt.origin {
					t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
				}
				if w.Header().Get("Access-Control-Allow-Methods") == "" {
					t.Errorf("Access-Control-Allow-Methods not set")
				}
			} else if corsHeader != "" {
				t.Errorf("Access-Control-Allow-Origin should not be set, got %s", corsHeader)
			}
		})
	}
}

func TestLanguageMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		acceptLanguage string
		want           domain.Language
	}{
		{"query parameter wins", "?lang=en", "ar-SA,ar;q=0.9", domain.LanguageEnglish},
		{"accept-language", "", "ar-SA,ar;q=0.9,en;q=0.5", domain.LanguageArabic},
		{"fallback", "", "", domain.LanguageArabic},
		{"unsupported header falls back", "", "fr-FR", domain.LanguageArabic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Language
			router := gin.New()
			router.Use(LanguageMiddleware(domain.LanguageArabic))
			router.GET("/test", func(c *gin.Context) {
				got = translatorFrom(c).Lang()
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test"+tt.query, nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, string(tt.want), w.Header().Get("Content-Language"))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(60, 2))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "198.51.100.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "198.51.100.2:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIPLimiterForgetsIdleVisitors(t *testing.T) {
	limiter := newIPLimiter(60, 1)
	start := time.Now()

	assert.True(t, limiter.allow("a", start))
	assert.False(t, limiter.allow("a", start))
	assert.Len(t, limiter.visitors, 1)

	later := start.Add(limiter.idle + time.Minute)
	assert.True(t, limiter.allow("b", later))
	assert.Len(t, limiter.visitors, 1, "idle visitor should be dropped")
}

// stubAuth accepts a single token
type stubAuth struct{}

func (stubAuth) Login(username, password string) (string, time.Time, error) {
	if username == "admin" && password == "s3cret" {
		return "good-token", time.Now().Add(time.Hour), nil
	}
	return "", time.Time{}, domain.ErrUnauthorized
}

func (stubAuth) Validate(token string) (string, error) {
	if token == "good-token" {
		return "admin", nil
	}
	return "", errors.New("bad token")
}

func TestAdminAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good-token", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AdminAuthMiddleware(stubAuth{}))
			router.GET("/admin", func(c *gin.Context) {
				c.String(http.StatusOK, c.GetString(adminSubjectKey))
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "admin", w.Body.String())
			}
		})
	}
}
