package projects

import (
	"context"

	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/repo"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
)

// Repository persists briefs, consultation requests and notes.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx rebinds the repository to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

func (r *Repository) CreateBrief(ctx context.Context, brief *models.ProjectBrief) error {
	return r.DB(ctx).Create(brief).Error
}

func (r *Repository) FindBrief(ctx context.Context, id string) (*models.ProjectBrief, error) {
	return repo.Optional[models.ProjectBrief](r.DB(ctx).Where("id = ?", id))
}

func (r *Repository) ListBriefsByUser(ctx context.Context, userID string) ([]models.ProjectBrief, error) {
	var rows []models.ProjectBrief
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("submission_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TransitionBrief moves a brief from one status to another only if it is
// still in from. It reports whether the row changed.
func (r *Repository) TransitionBrief(ctx context.Context, id string, from, to enums.BriefStatus, at int64) (bool, error) {
	res := r.DB(ctx).Model(&models.ProjectBrief{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(map[string]any{"status": to, "updated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CreateConsultation(ctx context.Context, request *models.ConsultationRequest) error {
	return r.DB(ctx).Create(request).Error
}

func (r *Repository) FindConsultation(ctx context.Context, id string) (*models.ConsultationRequest, error) {
	return repo.Optional[models.ConsultationRequest](r.DB(ctx).Where("id = ?", id))
}

func (r *Repository) ListConsultationsByProject(ctx context.Context, projectID string) ([]models.ConsultationRequest, error) {
	var rows []models.ConsultationRequest
	if err := r.DB(ctx).Where("project_id = ?", projectID).Order("submission_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListConsultationsByUser(ctx context.Context, userID string) ([]models.ConsultationRequest, error) {
	var rows []models.ConsultationRequest
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("submission_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) TransitionConsultation(ctx context.Context, id string, from, to enums.ConsultationStatus) (bool, error) {
	res := r.DB(ctx).Model(&models.ConsultationRequest{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CreateNote(ctx context.Context, note *models.ProjectNote) error {
	return r.DB(ctx).Create(note).Error
}

// ListNotes returns the newest note first.
func (r *Repository) ListNotes(ctx context.Context, projectID string) ([]models.ProjectNote, error) {
	var rows []models.ProjectNote
	if err := r.DB(ctx).Where("project_id = ?", projectID).Order("timestamp DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
