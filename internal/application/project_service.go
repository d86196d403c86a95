package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
)

type ProjectService struct {
	Projects repo.ProjectRepository
	Logger   *logrus.Logger
}

func NewProjectService(projects repo.ProjectRepository, logger *logrus.Logger) *ProjectService {
	return &ProjectService{Projects: projects, Logger: logger}
}

func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*entity.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &entity.Project{Base: entity.NewBase(time.Now()), Name: in.Name, Description: in.Description}
	if err := s.Projects.Create(ctx, p); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Error("create project failed")
		}
		return nil, apperror.Internal("error creating project", err)
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("project not found with id: " + id)
		}
		return nil, apperror.Internal("error fetching project", err)
	}
	return p, nil
}
