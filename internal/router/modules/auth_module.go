package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
)

type AuthModule struct {
	Handler  *handlers.AuthHandler
	Verifier middleware.SessionVerifier
	Redis    *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, v middleware.SessionVerifier, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Verifier: v, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	validateLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.GET("/validate-email/:token", validateLimiter, m.Handler.ValidateEmail)

	auth.GET("/check-auth-status",
		middleware.Auth(m.Verifier),
		middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.CheckAuthStatus,
	)
}
