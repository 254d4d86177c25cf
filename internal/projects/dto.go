package projects

import (
	"strings"

	"go.uber.org/multierr"

	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// BriefInput is the design-quiz submission.
type BriefInput struct {
	RoomType         types.RoomType
	StylePreferences []types.StylePreference
	Budget           types.BudgetRange
	Timeline         string
	SelectedPackage  *string
}

func (in BriefInput) normalized() BriefInput {
	in.Budget = in.Budget.Normalized()
	in.Timeline = strings.TrimSpace(in.Timeline)
	if in.SelectedPackage != nil {
		id := strings.TrimSpace(*in.SelectedPackage)
		if id == "" {
			in.SelectedPackage = nil
		} else {
			in.SelectedPackage = &id
		}
	}
	return in
}

// validate collects every field problem so the caller sees them together.
func (in BriefInput) validate() error {
	var errs error
	details := map[string]string{}
	add := func(field, msg string) {
		details[field] = msg
		errs = multierr.Append(errs, pkgerrors.Newf(pkgerrors.CodeValidation, "%s %s", field, msg))
	}

	if !in.RoomType.IsValid() {
		add("roomType", "is invalid")
	}
	if len(in.StylePreferences) == 0 {
		add("stylePreferences", "must contain at least one style")
	}
	for _, style := range in.StylePreferences {
		if !style.IsValid() {
			add("stylePreferences", "contains an invalid style")
			break
		}
	}
	if in.Budget.Min < 0 || in.Budget.Max < 0 {
		add("budget", "must not be negative")
	} else if in.Budget.Min > in.Budget.Max {
		add("budget", "min must not exceed max")
	}

	if errs == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid project brief").WithDetails(details)
}

type ConsultationInput struct {
	ProjectID     *string
	RequestedTime int64
	Notes         string
}
