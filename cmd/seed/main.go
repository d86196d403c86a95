package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/config"
	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	pginfra "github.com/oksasatya/go-ddd-identity/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// seed creates an ADMIN account with a demo project it owns. Re-running is
// safe: an existing admin is reused.
func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2, MinConns: 1, MaxConnLife: time.Hour})
	if err != nil {
		helpers.Fatal(logger, "failed to connect to postgres", err, nil)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	memberships := pginfra.NewMembershipRepository(pool)
	hasher := helpers.NewBcryptHasher(cfg.BcryptCost)

	const (
		email    = "admin@example.com"
		username = "admin"
		password = "Admin123!"
	)

	admin, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		digest, herr := hasher.Hash(password)
		if herr != nil {
			helpers.Fatal(logger, "failed to hash password", herr, nil)
		}
		admin = &entity.User{
			Base:           entity.NewBase(time.Now()),
			FirstName:      "Admin",
			LastName:       "User",
			Age:            30,
			Email:          email,
			Username:       username,
			PasswordHash:   digest,
			Role:           entity.RoleAdmin,
			EmailValidated: true,
		}
		if err := users.Create(ctx, admin); err != nil {
			helpers.Fatal(logger, "failed to seed admin", err, nil)
		}
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", admin.ID, email, password)
	case err != nil:
		helpers.Fatal(logger, "failed to look up admin", err, nil)
	default:
		fmt.Printf("admin already present: id=%s\n", admin.ID)
	}

	project := &entity.Project{Base: entity.NewBase(time.Now()), Name: "Demo", Description: "Seeded demo project"}
	if err := projects.Create(ctx, project); err != nil {
		helpers.Fatal(logger, "failed to seed project", err, nil)
	}

	m := &entity.Membership{Base: entity.NewBase(time.Now()), UserID: admin.ID, ProjectID: project.ID, AccessLevel: entity.AccessOwner}
	if err := memberships.Create(ctx, m); err != nil {
		helpers.Fatal(logger, "failed to seed membership", err, nil)
	}
	logger.WithFields(logrus.Fields{"user_id": admin.ID, "project_id": project.ID}).Info("seed complete")
}
