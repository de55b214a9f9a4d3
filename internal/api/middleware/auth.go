package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/api/service"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

// SessionMiddleware resolves the session credential on every protected
// route. The token is read from the httpOnly cookie set at login; a Bearer
// header is accepted as a fallback for non-browser clients. Every failure
// mode, missing, malformed, expired, or an unresolvable user, is a 401.
func SessionMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			tokenString = bearerToken(c)
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		user, err := authService.ResolveSession(tokenString)
		if err != nil {
			msg := "Invalid token"
			if err == service.ErrExpiredToken {
				msg = "Token expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"message": msg})
			c.Abort()
			return
		}

		// Attach the resolved identity for handlers to use
		c.Set("userID", user.ID)
		c.Set("user", user)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
