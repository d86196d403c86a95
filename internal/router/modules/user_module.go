package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
)

// UserModule serves /users; every route needs a session.
type UserModule struct {
	Handler  *handlers.UserHandler
	Verifier middleware.SessionVerifier
	Redis    *redis.Client
}

func NewUserModule(h *handlers.UserHandler, v middleware.SessionVerifier, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Verifier: v, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(
		middleware.Auth(m.Verifier),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		users.POST("", m.Handler.Create)
		users.POST("/create-project", m.Handler.AssignProject)
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
		users.PATCH("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
