package middleware

import (
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the session token issued at session creation.
// The token travels either as a Bearer header or as a ?token= query
// parameter so that browser EventSource/download links can carry it too.
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseSessionToken(tokenString, cfg.Session.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}
