package controllers

import (
	"context"
	"net/http"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

type assignRoleArgs struct {
	User string         `json:"user" validate:"required"`
	Role enums.UserRole `json:"role" validate:"required"`
}

type saveProfileArgs struct {
	Profile struct {
		Name             string                  `json:"name" validate:"required"`
		Email            string                  `json:"email" validate:"required,email"`
		Address          *string                 `json:"address"`
		Phone            string                  `json:"phone"`
		StylePreferences []types.StylePreference `json:"stylePreferences"`
	} `json:"profile"`
}

type userArgs struct {
	User string `json:"user" validate:"required"`
}

// InitializeAccessControl registers the caller and returns its role.
func InitializeAccessControl(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, _ *noArgs) (enums.UserRole, error) {
		return svc.InitializeAccessControl(ctx, caller)
	})
}

func GetCallerUserRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, _ *noArgs) (enums.UserRole, error) {
		return svc.GetCallerUserRole(ctx, caller)
	})
}

func IsCallerAdmin(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, _ *noArgs) (bool, error) {
		ok, err := svc.IsAdmin(ctx, caller)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve caller role")
		}
		return ok, nil
	})
}

func AssignCallerUserRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *assignRoleArgs) (bool, error) {
		if err := svc.AssignUserRole(ctx, caller, args.User, args.Role); err != nil {
			return false, err
		}
		return true, nil
	})
}

func GetCallerUserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, _ *noArgs) (*models.UserProfile, error) {
		return svc.GetCallerUserProfile(ctx, caller)
	})
}

func SaveCallerUserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *saveProfileArgs) (*models.UserProfile, error) {
		p := args.Profile
		return svc.SaveCallerUserProfile(ctx, caller, users.SaveProfileInput{
			Name:             p.Name,
			Email:            p.Email,
			Address:          p.Address,
			Phone:            p.Phone,
			StylePreferences: p.StylePreferences,
		})
	})
}

func GetUserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *userArgs) (*models.UserProfile, error) {
		return svc.GetUserProfile(ctx, caller, args.User)
	})
}
