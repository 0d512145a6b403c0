package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/config"
)

// SecurityHeaders sets the hardening headers browsers honour on API responses.
// HSTS is only sent in production and only over TLS.
func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	secureConfig := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'",
		IENoOpen:              true,
	}
	if cfg.IsProduction() {
		secureConfig.STSSeconds = 15552000
		secureConfig.STSIncludeSubdomains = true
	}
	return secure.New(secureConfig)
}

// Compression gzips responses for clients that accept it. Uploaded images are
// already compressed and are sent as is.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".png", ".jpg", ".jpeg", ".webp"}),
	)
}
