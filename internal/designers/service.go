package designers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// FallbackCount is how many directory entries are recommended when no
// designer declares a requested style.
const FallbackCount = 3

// BriefLookup returns a brief visible to caller, or nil.
type BriefLookup interface {
	GetProjectBrief(ctx context.Context, caller, id string) (*models.ProjectBrief, error)
}

type DesignerInput struct {
	ID        string
	Name      string
	Bio       string
	Styles    []types.StylePreference
	Portfolio []types.PortfolioItem
}

// Service is the designer directory and matcher.
type Service interface {
	GetDesigners(ctx context.Context) ([]models.Designer, error)
	GetDesignerByID(ctx context.Context, id string) (*models.Designer, error)
	AddDesigner(ctx context.Context, caller string, input DesignerInput) (*models.Designer, error)
	GetRecommendedDesigners(ctx context.Context, room types.RoomType, styles []types.StylePreference) ([]models.Designer, error)
	GetRecommendedDesignersForBrief(ctx context.Context, caller, briefID string) ([]models.Designer, error)
}

type service struct {
	repo   *Repository
	briefs BriefLookup
	authz  users.Authorizer
	clock  clock.Clock
	logg   *logger.Logger
}

func NewService(repo *Repository, briefs BriefLookup, authz users.Authorizer, clk clock.Clock, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("designer repository required")
	}
	if briefs == nil {
		return nil, fmt.Errorf("brief lookup required")
	}
	if authz == nil {
		return nil, fmt.Errorf("authorizer required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, briefs: briefs, authz: authz, clock: clk, logg: logg}, nil
}

func (s *service) GetDesigners(ctx context.Context) ([]models.Designer, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list designers")
	}
	return rows, nil
}

func (s *service) GetDesignerByID(ctx context.Context, id string) (*models.Designer, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load designer")
	}
	return row, nil
}

func (s *service) AddDesigner(ctx context.Context, caller string, input DesignerInput) (*models.Designer, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	details := map[string]string{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if len(input.Styles) == 0 {
		details["styles"] = "must declare at least one style"
	}
	for _, style := range input.Styles {
		if !style.IsValid() {
			details["styles"] = "contains an invalid style"
			break
		}
	}
	portfolio := input.Portfolio
	if portfolio == nil {
		portfolio = []types.PortfolioItem{}
	}
	for i := range portfolio {
		if portfolio[i].ID == "" {
			portfolio[i].ID = uuid.NewString()
		}
		if !portfolio[i].Style.IsValid() {
			details["portfolio"] = "contains an invalid style"
		}
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid designer").WithDetails(details)
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}
	designer := &models.Designer{
		ID:        id,
		Name:      name,
		Bio:       strings.TrimSpace(input.Bio),
		Styles:    input.Styles,
		Portfolio: portfolio,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, designer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "designer %q already exists", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create designer")
	}
	s.logg.Info(s.logg.WithField(ctx, "designer_id", id), "designer added")
	return designer, nil
}

// GetRecommendedDesigners returns designers sharing any requested style. The
// room type is validated but does not narrow the match.
func (s *service) GetRecommendedDesigners(ctx context.Context, room types.RoomType, styles []types.StylePreference) ([]models.Designer, error) {
	if !room.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid room type")
	}
	for _, style := range styles {
		if !style.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid style preference")
		}
	}
	directory, err := s.GetDesigners(ctx)
	if err != nil {
		return nil, err
	}
	return Match(directory, styles), nil
}

func (s *service) GetRecommendedDesignersForBrief(ctx context.Context, caller, briefID string) ([]models.Designer, error) {
	if err := users.RequirePrincipal(caller); err != nil {
		return nil, err
	}
	brief, err := s.briefs.GetProjectBrief(ctx, caller, briefID)
	if err != nil {
		return nil, err
	}
	if brief == nil {
		return []models.Designer{}, nil
	}
	return s.GetRecommendedDesigners(ctx, brief.RoomType, brief.StylePreferences)
}

// Match keeps directory order. When nothing matches it falls back to the
// first FallbackCount designers.
func Match(directory []models.Designer, requested []types.StylePreference) []models.Designer {
	matched := make([]models.Designer, 0, len(directory))
	for _, designer := range directory {
		if types.AnyStyleMatches(designer.Styles, requested) {
			matched = append(matched, designer)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	n := FallbackCount
	if len(directory) < n {
		n = len(directory)
	}
	return append(matched, directory[:n]...)
}
