package designers

import (
	"context"

	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/repo"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns the directory in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.Designer, error) {
	var rows []models.Designer
	if err := r.DB(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Designer, error) {
	return repo.Optional[models.Designer](r.DB(ctx).Where("id = ?", id))
}

func (r *Repository) Create(ctx context.Context, designer *models.Designer) error {
	return r.DB(ctx).Create(designer).Error
}
