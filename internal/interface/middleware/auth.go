package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

const CtxUserIDKey = "userID"

// SessionVerifier resolves a bearer token to a user ID. application.AuthService
// implements it.
type SessionVerifier interface {
	Authenticate(token string) (string, error)
}

// Auth requires "Authorization: Bearer <session token>" and sets userID in the
// Gin context. Email-verification tokens are rejected.
func Auth(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, apperror.Unauthorized("missing access token"))
			return
		}
		uid, err := v.Authenticate(token)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

func bearerToken(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
