package users

import (
	"context"
	"fmt"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

type repository interface {
	FindRole(ctx context.Context, userID string) (*models.UserRoleAssignment, error)
	ClaimFirstAdmin(ctx context.Context, userID string, at int64) (bool, error)
	InsertRoleIfMissing(ctx context.Context, row models.UserRoleAssignment) error
	UpsertRole(ctx context.Context, row models.UserRoleAssignment) error
	FindProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}

// Service covers access-control roles and caller profiles.
type Service interface {
	Authorizer
	InitializeAccessControl(ctx context.Context, caller string) (enums.UserRole, error)
	GetCallerUserRole(ctx context.Context, caller string) (enums.UserRole, error)
	AssignUserRole(ctx context.Context, caller, user string, role enums.UserRole) error
	GetCallerUserProfile(ctx context.Context, caller string) (*models.UserProfile, error)
	SaveCallerUserProfile(ctx context.Context, caller string, input SaveProfileInput) (*models.UserProfile, error)
	GetUserProfile(ctx context.Context, caller, user string) (*models.UserProfile, error)
}

type service struct {
	repo  repository
	clock clock.Clock
	logg  *logger.Logger
}

// NewService wires the users service.
func NewService(repo repository, clk clock.Clock, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, clock: clk, logg: logg}, nil
}

func (s *service) IsAdmin(ctx context.Context, principal string) (bool, error) {
	if principal == "" {
		return false, nil
	}
	row, err := s.repo.FindRole(ctx, principal)
	if err != nil {
		return false, err
	}
	return row != nil && row.Role == enums.UserRoleAdmin, nil
}

// InitializeAccessControl registers the caller. The first caller to arrive
// while no admin exists becomes admin; everyone else gets the user role.
func (s *service) InitializeAccessControl(ctx context.Context, caller string) (enums.UserRole, error) {
	if err := RequirePrincipal(caller); err != nil {
		return "", err
	}
	existing, err := s.repo.FindRole(ctx, caller)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}
	if existing != nil {
		return existing.Role, nil
	}

	now := s.clock.Now()
	claimed, err := s.repo.ClaimFirstAdmin(ctx, caller, now)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bootstrap admin")
	}
	if claimed {
		s.logg.Info(s.logg.WithUserID(ctx, caller), "admin bootstrapped")
		return enums.UserRoleAdmin, nil
	}

	if err := s.repo.InsertRoleIfMissing(ctx, models.UserRoleAssignment{
		UserID:     caller,
		Role:       enums.UserRoleUser,
		AssignedBy: caller,
		AssignedAt: now,
	}); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register user role")
	}
	row, err := s.repo.FindRole(ctx, caller)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}
	if row == nil {
		return enums.UserRoleUser, nil
	}
	return row.Role, nil
}

func (s *service) GetCallerUserRole(ctx context.Context, caller string) (enums.UserRole, error) {
	if caller == "" {
		return enums.UserRoleGuest, nil
	}
	row, err := s.repo.FindRole(ctx, caller)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}
	if row == nil {
		return enums.UserRoleGuest, nil
	}
	return row.Role, nil
}

func (s *service) AssignUserRole(ctx context.Context, caller, user string, role enums.UserRole) error {
	if err := RequireAdmin(ctx, s, caller); err != nil {
		return err
	}
	if user == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user is required")
	}
	if !role.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid role %q", role)
	}
	if err := s.repo.UpsertRole(ctx, models.UserRoleAssignment{
		UserID:     user,
		Role:       role,
		AssignedBy: caller,
		AssignedAt: s.clock.Now(),
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign role")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": user, "role": role, "assigned_by": caller}), "role assigned")
	return nil
}

func (s *service) GetCallerUserProfile(ctx context.Context, caller string) (*models.UserProfile, error) {
	if err := RequirePrincipal(caller); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindProfile(ctx, caller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func (s *service) SaveCallerUserProfile(ctx context.Context, caller string, input SaveProfileInput) (*models.UserProfile, error) {
	if err := RequirePrincipal(caller); err != nil {
		return nil, err
	}
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindProfile(ctx, caller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	now := s.clock.Now()
	createdAt := now
	if existing != nil {
		createdAt = existing.CreatedAt
	}
	profile := input.toModel(caller, createdAt, now)
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return profile, nil
}

func (s *service) GetUserProfile(ctx context.Context, caller, user string) (*models.UserProfile, error) {
	if err := RequirePrincipal(caller); err != nil {
		return nil, err
	}
	ok, err := CanAccessOwned(ctx, s, caller, user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user's profile")
	}
	profile, err := s.repo.FindProfile(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}
