// Package middleware holds the gin middleware shared by every route group:
// locale negotiation, request logging, CORS, authentication, rate limiting
// and the central error mapping.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/edupath/internal/pkg/i18n"
)

// ContextLang holds the negotiated i18n.Lang
const ContextLang = "lang"

const contextLangExplicit = "langExplicit"

// Locale negotiates the response language from the `lang` query parameter,
// then Accept-Language, then fallback. JWTAuth later replaces a header-derived
// choice with the user's stored preference.
func Locale(fallback i18n.Lang) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("lang")

		c.Set(ContextLang, i18n.Negotiate(query, c.GetHeader("Accept-Language"), fallback))
		if _, ok := i18n.Parse(query); ok {
			c.Set(contextLangExplicit, true)
		}
		c.Next()
	}
}

// LangFrom returns the request language, i18n.Default when Locale did not run.
func LangFrom(c *gin.Context) i18n.Lang {
	if value, exists := c.Get(ContextLang); exists {
		if lang, ok := value.(i18n.Lang); ok {
			return lang
		}
	}
	return i18n.Default
}

// RequestLogger logs one line per request
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		if userID, ok := GetUserID(c); ok {
			event = event.Int64("userID", userID)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Msg("HTTP request")
	}
}

// CORS allows the SPA origins to call the API with credentials
func CORS(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	} else {
		config.AllowOrigins = origins
	}
	return cors.New(config)
}
