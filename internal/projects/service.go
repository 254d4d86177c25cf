package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PackageLookup checks that a selected room package exists.
type PackageLookup interface {
	GetRoomPackageByID(ctx context.Context, id string) (*models.RoomPackage, error)
}

// ProfileLookup supplies contact details for consultation acknowledgements.
type ProfileLookup interface {
	GetCallerUserProfile(ctx context.Context, caller string) (*models.UserProfile, error)
}

// Service covers project briefs, consultation requests and project notes.
type Service interface {
	CreateProjectBrief(ctx context.Context, caller string, input BriefInput) (*models.ProjectBrief, error)
	GetProjectBrief(ctx context.Context, caller, id string) (*models.ProjectBrief, error)
	GetCallerProjectBriefs(ctx context.Context, caller string) ([]models.ProjectBrief, error)
	UpdateProjectBriefStatus(ctx context.Context, caller, id string, status enums.BriefStatus) (*models.ProjectBrief, error)

	CreateConsultationRequest(ctx context.Context, caller string, input ConsultationInput) (*models.ConsultationRequest, error)
	GetConsultationsForProject(ctx context.Context, caller, projectID string) ([]models.ConsultationRequest, error)
	GetCallerConsultationRequests(ctx context.Context, caller string) ([]models.ConsultationRequest, error)
	UpdateConsultationStatus(ctx context.Context, caller, id string, status enums.ConsultationStatus) (*models.ConsultationRequest, error)

	AddNote(ctx context.Context, caller, projectID, message string) (*models.ProjectNote, error)
	GetNotesForProject(ctx context.Context, caller, projectID string) ([]models.ProjectNote, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	outbox   outbox.Emitter
	packages PackageLookup
	profiles ProfileLookup
	authz    users.Authorizer
	clock    clock.Clock
	logg     *logger.Logger
}

// Deps groups the collaborators of the projects service.
type Deps struct {
	Repo     *Repository
	Tx       txRunner
	Outbox   outbox.Emitter
	Packages PackageLookup
	Profiles ProfileLookup
	Authz    users.Authorizer
	Clock    clock.Clock
	Logger   *logger.Logger
}

func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("projects repository required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Outbox == nil:
		return nil, fmt.Errorf("outbox emitter required")
	case deps.Packages == nil:
		return nil, fmt.Errorf("package lookup required")
	case deps.Profiles == nil:
		return nil, fmt.Errorf("profile lookup required")
	case deps.Authz == nil:
		return nil, fmt.Errorf("authorizer required")
	case deps.Clock == nil:
		return nil, fmt.Errorf("clock required")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     deps.Repo,
		tx:       deps.Tx,
		outbox:   deps.Outbox,
		packages: deps.Packages,
		profiles: deps.Profiles,
		authz:    deps.Authz,
		clock:    deps.Clock,
		logg:     logg,
	}, nil
}

func (s *service) CreateProjectBrief(ctx context.Context, caller string, input BriefInput) (*models.ProjectBrief, error) {
	if err := users.RequirePrincipal(caller); err != nil {
		return nil, err
	}
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.SelectedPackage != nil {
		pkg, err := s.packages.GetRoomPackageByID(ctx, *input.SelectedPackage)
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected package does not exist").
				WithDetails(map[string]string{"selectedPackage": *input.SelectedPackage})
		}
	}

	now := s.clock.Now()
	brief := &models.ProjectBrief{
		ID:               uuid.NewString(),
		UserID:           caller,
		RoomType:         input.RoomType,
		StylePreferences: input.StylePreferences,
		Budget:           input.Budget,
		Timeline:         input.Timeline,
		SelectedPackage:  input.SelectedPackage,
		Status:           enums.BriefStatusPending,
		SubmissionDate:   now,
		UpdatedAt:        now,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateBrief(ctx, brief); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project brief")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventProjectBriefCreated,
			AggregateType: enums.AggregateProjectBrief,
			AggregateID:   brief.ID,
			Actor:         &outbox.ActorRef{Principal: caller},
			Data: payloads.ProjectBriefCreatedEvent{
				BriefID:        brief.ID,
				UserID:         caller,
				RoomType:       brief.RoomType.String(),
				BudgetMax:      brief.Budget.Max,
				Currency:       brief.Budget.Currency,
				SubmissionDate: brief.SubmissionDate,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"brief_id": brief.ID, "user_id": caller}), "project brief created")
	return brief, nil
}

// GetProjectBrief returns nil for unknown briefs and for callers that are
// neither the owner nor an admin.
func (s *service) GetProjectBrief(ctx context.Context, caller, id string) (*models.ProjectBrief, error) {
	brief, err := s.repo.FindBrief(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project brief")
	}
	if brief == nil {
		return nil, nil
	}
	ok, err := users.CanAccessOwned(ctx, s.authz, caller, brief.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return brief, nil
}

func (s *service) GetCallerProjectBriefs(ctx context.Context, caller string) ([]models.ProjectBrief, error) {
	if err := users.RequirePrincipal(caller); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListBriefsByUser(ctx, caller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list project briefs")
	}
	return rows, nil
}

func (s *service) UpdateProjectBriefStatus(ctx context.Context, caller, id string, status enums.BriefStatus) (*models.ProjectBrief, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid brief status %q", status)
	}
	brief, err := s.repo.FindBrief(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project brief")
	}
	if brief == nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "project brief %q not found", id)
	}
	if !brief.Status.CanTransitionTo(status) {
		return nil, stateConflict("brief", brief.Status.String(), status.String())
	}
	now := s.clock.Now()
	changed, err := s.repo.TransitionBrief(ctx, id, brief.Status, status, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project brief")
	}
	if !changed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "brief status changed concurrently")
	}
	brief.Status = status
	brief.UpdatedAt = now
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"brief_id": id, "status": status}), "project brief status updated")
	return brief, nil
}

func (s *service) CreateConsultationRequest(ctx context.Context, caller string, input ConsultationInput) (*models.ConsultationRequest, error) {
	if err := users.RequirePrincipal(caller); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if input.RequestedTime <= now {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested time must be in the future").
			WithDetails(map[string]int64{"requestedTime": input.RequestedTime, "submissionDate": now})
	}
	var projectID *string
	if input.ProjectID != nil && strings.TrimSpace(*input.ProjectID) != "" {
		id := strings.TrimSpace(*input.ProjectID)
		brief, err := s.repo.FindBrief(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project brief")
		}
		if brief == nil || brief.UserID != caller {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "project does not belong to caller").
				WithDetails(map[string]string{"projectId": id})
		}
		projectID = &id
	}

	profile, err := s.profiles.GetCallerUserProfile(ctx, caller)
	if err != nil {
		return nil, err
	}

	request := &models.ConsultationRequest{
		ID:             uuid.NewString(),
		UserID:         caller,
		ProjectID:      projectID,
		RequestedTime:  input.RequestedTime,
		Notes:          strings.TrimSpace(input.Notes),
		Status:         enums.ConsultationStatusPending,
		SubmissionDate: now,
	}
	event := payloads.ConsultationRequestedEvent{
		RequestID:     request.ID,
		UserID:        caller,
		ProjectID:     projectID,
		RequestedTime: request.RequestedTime,
	}
	if profile != nil {
		event.ContactEmail = profile.Email
		event.ContactName = profile.Name
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateConsultation(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create consultation request")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventConsultationRequested,
			AggregateType: enums.AggregateConsultation,
			AggregateID:   request.ID,
			Actor:         &outbox.ActorRef{Principal: caller},
			Data:          event,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"request_id": request.ID, "user_id": caller}), "consultation requested")
	return request, nil
}

func (s *service) GetConsultationsForProject(ctx context.Context, caller, projectID string) ([]models.ConsultationRequest, error) {
	if err := s.requireProjectAccess(ctx, caller, projectID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return []models.ConsultationRequest{}, nil
		}
		return nil, err
	}
	rows, err := s.repo.ListConsultationsByProject(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consultations")
	}
	return rows, nil
}

func (s *service) GetCallerConsultationRequests(ctx context.Context, caller string) ([]models.ConsultationRequest, error) {
	if err := users.RequirePrincipal(caller); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListConsultationsByUser(ctx, caller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consultations")
	}
	return rows, nil
}

func (s *service) UpdateConsultationStatus(ctx context.Context, caller, id string, status enums.ConsultationStatus) (*models.ConsultationRequest, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid consultation status %q", status)
	}
	request, err := s.repo.FindConsultation(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load consultation request")
	}
	if request == nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "consultation request %q not found", id)
	}
	if !request.Status.CanTransitionTo(status) {
		return nil, stateConflict("consultation", request.Status.String(), status.String())
	}
	changed, err := s.repo.TransitionConsultation(ctx, id, request.Status, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update consultation request")
	}
	if !changed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "consultation status changed concurrently")
	}
	request.Status = status
	return request, nil
}

func (s *service) AddNote(ctx context.Context, caller, projectID, message string) (*models.ProjectNote, error) {
	if err := s.requireProjectAccess(ctx, caller, projectID); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	note := &models.ProjectNote{
		ID:        uuid.NewString(),
		UserID:    caller,
		ProjectID: projectID,
		Message:   message,
		Timestamp: s.clock.Now(),
	}
	if err := s.repo.CreateNote(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create note")
	}
	return note, nil
}

func (s *service) GetNotesForProject(ctx context.Context, caller, projectID string) ([]models.ProjectNote, error) {
	if err := s.requireProjectAccess(ctx, caller, projectID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return []models.ProjectNote{}, nil
		}
		return nil, err
	}
	rows, err := s.repo.ListNotes(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notes")
	}
	return rows, nil
}

func (s *service) requireProjectAccess(ctx context.Context, caller, projectID string) error {
	if err := users.RequirePrincipal(caller); err != nil {
		return err
	}
	brief, err := s.repo.FindBrief(ctx, projectID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project brief")
	}
	if brief == nil {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "project %q not found", projectID)
	}
	ok, err := users.CanAccessOwned(ctx, s.authz, caller, brief.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "project belongs to another user")
	}
	return nil
}

func stateConflict(entity, from, to string) error {
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s cannot move from %s to %s", entity, from, to).
		WithDetails(map[string]string{"from": from, "to": to})
}
