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

// MembershipService records which users may access which projects.
type MembershipService struct {
	Memberships repo.MembershipRepository
	Logger      *logrus.Logger
}

func NewMembershipService(memberships repo.MembershipRepository, logger *logrus.Logger) *MembershipService {
	return &MembershipService{Memberships: memberships, Logger: logger}
}

// Assign inserts a membership row. It neither checks that the user or project
// exist nor deduplicates: assigning the same pair twice yields two rows.
func (s *MembershipService) Assign(ctx context.Context, in AssignInput) (*entity.Membership, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	level, _ := entity.ParseAccessLevel(in.AccessLevel)
	m := &entity.Membership{
		Base:        entity.NewBase(time.Now()),
		UserID:      in.UserID,
		ProjectID:   in.ProjectID,
		AccessLevel: level,
	}
	if err := s.Memberships.Create(ctx, m); err != nil {
		if errors.Is(err, repo.ErrConstraint) {
			return nil, apperror.BadRequest("membership references an unknown user or project").Wrap(err)
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Error("assign membership failed")
		}
		return nil, apperror.Internal("error creating project membership", err)
	}
	metricMemberships.Add(1)
	return m, nil
}
