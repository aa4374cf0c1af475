package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the given origins, or local dev origins when none are set. A
// chrome-extension:// origin is accepted when listed explicitly.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:           origins,
		AllowMethods:           []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:           []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders:          []string{"X-Request-Id", "X-Trace-Id", "Retry-After"},
		AllowCredentials:       true,
		AllowBrowserExtensions: true,
	})
}
