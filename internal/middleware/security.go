package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/pkg/config"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		csp := "default-src 'none'; " +
			"connect-src 'self'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'none'; " +
			"form-action 'none'"
		c.Header("Content-Security-Policy", csp)

		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")

		c.Next()
	}
}

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5000",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5000",
	"http://127.0.0.1:8080",
}

// CORSMiddleware handles Cross-Origin Resource Sharing with environment-based configuration
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowedOrigins := cfg.GetAllowedOrigins()
	if cfg.IsDevelopment() {
		allowedOrigins = append(append([]string{}, devOrigins...), allowedOrigins...)
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				break
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Requested-With")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

var allowedContentTypes = []string{
	"application/json",
}

var suspiciousAgents = []string{
	"sqlmap",
	"nikto",
	"nmap",
	"masscan",
	"<script",
	"javascript:",
}

// InputValidationMiddleware caps the request body and rejects requests with
// a missing or unsupported content type or a known scanner user agent.
// Bodiless POSTs (analyze, reanalyze) need no content type.
func InputValidationMiddleware(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		hasBody := c.Request.ContentLength != 0
		if hasBody && (c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut) {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": "Content-Type header is required",
				})
				return
			}

			valid := false
			for _, allowed := range allowedContentTypes {
				if strings.HasPrefix(contentType, allowed) {
					valid = true
					break
				}
			}
			if !valid {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"error":         "Unsupported content type",
					"allowed_types": allowedContentTypes,
				})
				return
			}
		}

		userAgent := strings.ToLower(c.GetHeader("User-Agent"))
		for _, pattern := range suspiciousAgents {
			if strings.Contains(userAgent, pattern) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "Request blocked for security reasons",
				})
				return
			}
		}

		c.Next()
	}
}
