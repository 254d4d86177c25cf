package controllers

import (
	"context"
	"net/http"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/projects"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

type createBriefArgs struct {
	Brief struct {
		RoomType         types.RoomType          `json:"roomType"`
		StylePreferences []types.StylePreference `json:"stylePreferences" validate:"min=1"`
		Budget           types.BudgetRange       `json:"budget"`
		Timeline         string                  `json:"timeline"`
		SelectedPackage  *string                 `json:"selectedPackage"`
	} `json:"brief"`
}

func (a createBriefArgs) toInput() projects.BriefInput {
	b := a.Brief
	return projects.BriefInput{
		RoomType:         b.RoomType,
		StylePreferences: b.StylePreferences,
		Budget:           b.Budget,
		Timeline:         b.Timeline,
		SelectedPackage:  b.SelectedPackage,
	}
}

type briefStatusArgs struct {
	ID     string            `json:"id" validate:"required"`
	Status enums.BriefStatus `json:"status" validate:"required"`
}

type createConsultationArgs struct {
	Request struct {
		ProjectID     *string `json:"projectId"`
		RequestedTime int64   `json:"requestedTime" validate:"gte=0"`
		Notes         string  `json:"notes"`
	} `json:"request"`
}

type consultationStatusArgs struct {
	ID     string                   `json:"id" validate:"required"`
	Status enums.ConsultationStatus `json:"status" validate:"required"`
}

type projectIDArgs struct {
	ProjectID string `json:"projectId"`
}

type addNoteArgs struct {
	ProjectID string `json:"projectId" validate:"required"`
	Message   string `json:"message"`
}

func CreateProjectBrief(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *createBriefArgs) (*models.ProjectBrief, error) {
		return svc.CreateProjectBrief(ctx, caller, args.toInput())
	})
}

// GetProjectBrief returns null for briefs the caller may not read.
func GetProjectBrief(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *idArgs) (*models.ProjectBrief, error) {
		return svc.GetProjectBrief(ctx, caller, args.ID)
	})
}

func GetCallerProjectBriefs(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, _ *noArgs) ([]models.ProjectBrief, error) {
		return svc.GetCallerProjectBriefs(ctx, caller)
	})
}

func UpdateProjectBriefStatus(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *briefStatusArgs) (*models.ProjectBrief, error) {
		return svc.UpdateProjectBriefStatus(ctx, caller, args.ID, args.Status)
	})
}

func CreateConsultationRequest(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *createConsultationArgs) (*models.ConsultationRequest, error) {
		req := args.Request
		return svc.CreateConsultationRequest(ctx, caller, projects.ConsultationInput{
			ProjectID:     req.ProjectID,
			RequestedTime: req.RequestedTime,
			Notes:         req.Notes,
		})
	})
}

func GetConsultationsForProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *projectIDArgs) ([]models.ConsultationRequest, error) {
		return svc.GetConsultationsForProject(ctx, caller, args.ProjectID)
	})
}

func GetCallerConsultationRequests(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, _ *noArgs) ([]models.ConsultationRequest, error) {
		return svc.GetCallerConsultationRequests(ctx, caller)
	})
}

func UpdateConsultationStatus(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *consultationStatusArgs) (*models.ConsultationRequest, error) {
		return svc.UpdateConsultationStatus(ctx, caller, args.ID, args.Status)
	})
}

func AddNote(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *addNoteArgs) (*models.ProjectNote, error) {
		return svc.AddNote(ctx, caller, args.ProjectID, args.Message)
	})
}

// GetNotesForProject lists notes newest first.
func GetNotesForProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *projectIDArgs) ([]models.ProjectNote, error) {
		return svc.GetNotesForProject(ctx, caller, args.ProjectID)
	})
}
