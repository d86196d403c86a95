package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/interface/middleware"
)

type ProjectModule struct {
	Handler  *handlers.ProjectHandler
	Verifier middleware.SessionVerifier
	Redis    *redis.Client
}

func NewProjectModule(h *handlers.ProjectHandler, v middleware.SessionVerifier, rdb *redis.Client) *ProjectModule {
	return &ProjectModule{Handler: h, Verifier: v, Redis: rdb}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.Use(
		middleware.Auth(m.Verifier),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		projects.POST("", m.Handler.Create)
		projects.GET("/:id", m.Handler.Get)
	}
}
