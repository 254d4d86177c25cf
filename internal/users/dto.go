package users

import (
	"net/mail"
	"strings"

	"go.uber.org/multierr"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// SaveProfileInput is the caller-editable part of a profile.
type SaveProfileInput struct {
	Name             string
	Email            string
	Address          *string
	Phone            string
	StylePreferences []types.StylePreference
}

func (in SaveProfileInput) normalized() SaveProfileInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Address != nil {
		addr := strings.TrimSpace(*in.Address)
		if addr == "" {
			in.Address = nil
		} else {
			in.Address = &addr
		}
	}
	if in.StylePreferences == nil {
		in.StylePreferences = []types.StylePreference{}
	}
	return in
}

func (in SaveProfileInput) validate() error {
	var errs error
	details := map[string]string{}
	if in.Name == "" {
		details["name"] = "is required"
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "name is required"))
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		details["email"] = "must be a valid email"
		errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid email"))
	}
	for _, style := range in.StylePreferences {
		if !style.IsValid() {
			details["stylePreferences"] = "contains an invalid style"
			errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "invalid style preference"))
			break
		}
	}
	if errs == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid profile").WithDetails(details)
}

func (in SaveProfileInput) toModel(userID string, createdAt, updatedAt int64) *models.UserProfile {
	return &models.UserProfile{
		UserID:           userID,
		Name:             in.Name,
		Email:            in.Email,
		Address:          in.Address,
		Phone:            in.Phone,
		StylePreferences: in.StylePreferences,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}
