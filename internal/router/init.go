package router

import (
	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/container"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-identity/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-ddd-identity/internal/interface/http"
	"github.com/oksasatya/go-ddd-identity/internal/router/modules"
	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

type repositories struct {
	Users       repository.UserRepository
	Projects    repository.ProjectRepository
	Memberships repository.MembershipRepository
}

func buildRepositories() repositories {
	if pool := container.GetPGPool(); pool != nil {
		return repositories{
			Users:       pginfra.NewUserRepository(pool),
			Projects:    pginfra.NewProjectRepository(pool),
			Memberships: pginfra.NewMembershipRepository(pool),
		}
	}
	store := memory.NewStore()
	return repositories{Users: store.Users(), Projects: store.Projects(), Memberships: store.Memberships()}
}

// Services groups the application layer built from the container.
type Services struct {
	Auth        *application.AuthService
	Users       *application.UserService
	Projects    *application.ProjectService
	Memberships *application.MembershipService
}

func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := buildRepositories()

	var indexer application.UserIndexer
	if ix := container.GetUserIndex(); ix != nil {
		indexer = ix
	}

	auth := application.NewAuthService(repos.Users, container.GetHasher(), container.GetJWT(), container.GetNotifier(), logger,
		application.AuthConfig{
			SessionTTL: cfg.SessionTTL,
			VerifyTTL:  cfg.VerifyTokenTTL,
			VerifyURL:  cfg.VerifyEmailURL(),
			Brand: mailtpl.Brand{
				AppName:        cfg.AppName,
				CompanyName:    cfg.CompanyName,
				CompanyAddress: cfg.CompanyAddress,
				LogoURL:        cfg.LogoURL,
				SupportURL:     cfg.SupportURL,
				PrivacyURL:     cfg.PrivacyURL,
			},
		}).WithIndexer(indexer)

	return Services{
		Auth:        auth,
		Users:       application.NewUserService(repos.Users, repos.Memberships, container.GetHasher(), indexer, logger, cfg.HostAPI),
		Projects:    application.NewProjectService(repos.Projects, logger),
		Memberships: application.NewMembershipService(repos.Memberships, logger),
	}
}

// InitModules builds every feature module from the container and registers it
// with r. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	if !cfg.RateLimitEnabled {
		rdb = nil
	}
	svc := BuildServices()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger), svc.Auth, rdb))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, svc.Memberships, logger), svc.Auth, rdb))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(svc.Projects), svc.Auth, rdb))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
