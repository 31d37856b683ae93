package app

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"

	"github.com/sekolah-web/core/internal/config"
	"github.com/sekolah-web/core/internal/middleware"
)

func corsConfig(cfg *config.AppConfig) cors.Config {
	return cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAgeSeconds) * time.Second,
		AllowOriginFunc:  originAllowed(cfg),
	}
}

// originAllowed matches the host of a request origin against the configured
// patterns.
func originAllowed(cfg *config.AppConfig) func(string) bool {
	patterns := cfg.CORS.AllowedOrigins
	switch {
	case cfg.IsDev():
		return func(string) bool { return true }
	case len(patterns) == 0:
		allow := !cfg.IsProduction()
		return func(string) bool { return allow }
	}
	return func(origin string) bool {
		host := originHost(origin)
		for _, pattern := range patterns {
			if matchOrigin(pattern, host) {
				return true
			}
		}
		return false
	}
}

// originHost returns the host[:port] of an origin URL.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return strings.ToLower(u.Host)
}

// matchOrigin reports whether host matches pattern. "*.example.sch.id"
// matches subdomains only; "localhost:*" matches any port.
func matchOrigin(pattern, host string) bool {
	pattern = strings.ToLower(pattern)
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
