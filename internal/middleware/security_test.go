package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/pkg/config"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	expectedHeaders := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"X-XSS-Protection":        "1; mode=block",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'",
		"Cache-Control":           "no-store, no-cache, must-revalidate, proxy-revalidate",
		"Pragma":                  "no-cache",
		"Expires":                 "0",
	}

	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	for header, expectedValue := range expectedHeaders {
		actualValue := w.Header().Get(header)
		if header == "Content-Security-Policy" {
			assert.Contains(t, actualValue, expectedValue)
		} else {
			assert.Equal(t, expectedValue, actualValue, "Header %s should be %s", header, expectedValue)
		}
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		environment    string
		allowedOrigins string
		origin         string
		shouldAllow    bool
	}{
		{
			name:        "Development - localhost allowed",
			environment: "development",
			origin:      "http://localhost:3000",
			shouldAllow: true,
		},
		{
			name:        "Development - legacy dashboard port allowed",
			environment: "development",
			origin:      "http://localhost:5000",
			shouldAllow: true,
		},
		{
			name:        "Development - unknown origin blocked",
			environment: "development",
			origin:      "https://malicious-site.com",
			shouldAllow: false,
		},
		{
			name:           "Production - configured origin allowed",
			environment:    "production",
			allowedOrigins: "https://lot.example.com",
			origin:         "https://lot.example.com",
			shouldAllow:    true,
		},
		{
			name:        "Production - localhost blocked",
			environment: "production",
			origin:      "http://localhost:3000",
			shouldAllow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Environment:    tt.environment,
				AllowedOrigins: tt.allowedOrigins,
			}

			router := gin.New()
			router.Use(CORSMiddleware(cfg))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "test"})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if tt.shouldAllow {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
			assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}

func TestCORSMiddleware_PreflightRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORSMiddleware(&config.Config{Environment: "development"}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestInputValidationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		method         string
		body           string
		contentType    string
		userAgent      string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Valid POST request",
			method:         "POST",
			body:           `{"year":2022}`,
			contentType:    "application/json",
			userAgent:      "Mozilla/5.0",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bodiless POST without Content-Type",
			method:         "POST",
			userAgent:      "lotpilot/1.0",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "POST body without Content-Type",
			method:         "POST",
			body:           `{"year":2022}`,
			userAgent:      "Mozilla/5.0",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Content-Type header is required",
		},
		{
			name:           "PUT with invalid Content-Type",
			method:         "PUT",
			body:           "<html></html>",
			contentType:    "text/html",
			userAgent:      "Mozilla/5.0",
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedError:  "Unsupported content type",
		},
		{
			name:           "Suspicious User-Agent (sqlmap)",
			method:         "GET",
			userAgent:      "sqlmap/1.4.9",
			expectedStatus: http.StatusForbidden,
			expectedError:  "Request blocked for security reasons",
		},
		{
			name:           "Suspicious User-Agent (script tag)",
			method:         "GET",
			userAgent:      "Mozilla <script>alert('xss')</script>",
			expectedStatus: http.StatusForbidden,
			expectedError:  "Request blocked for security reasons",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(InputValidationMiddleware(1024))
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "test"})
			})

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, "/test", strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, "/test", nil)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			req.Header.Set("User-Agent", tt.userAgent)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestRateLimitingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitingMiddleware(0.001, 3))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429, 429}, codes)

	// a different client has its own bucket
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.7:4000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(LoggingMiddleware(logger.NewZapAdapter(zap.New(core))))
	router.GET("/vehicles/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
	})

	req := httptest.NewRequest("GET", "/vehicles/123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	entries := logs.FilterMessage("request rejected").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "/vehicles/123", entries[0].ContextMap()["path"])
	}
}

func TestLoggingMiddleware_ServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(LoggingMiddleware(logger.NewZapAdapter(zap.New(core))))
	router.GET("/bare", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	router.GET("/attached", func(c *gin.Context) {
		_ = c.Error(errors.New("storage offline"))
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/bare", "/attached"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}

	entries := logs.FilterMessage("request failed").All()
	if assert.Len(t, entries, 2) {
		assert.NotContains(t, entries[0].ContextMap(), "error")
		assert.Contains(t, entries[1].ContextMap()["error"], "storage offline")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RecoveryMiddleware(logger.NewNopLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
