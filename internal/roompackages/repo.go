package roompackages

import (
	"context"

	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/repo"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

const directoryOrder = "created_at ASC, id ASC"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context) ([]models.RoomPackage, error) {
	return r.list(r.DB(ctx))
}

func (r *Repository) ListByPriceRange(ctx context.Context, min, max int64) ([]models.RoomPackage, error) {
	return r.list(r.DB(ctx).Where("price_inr BETWEEN ? AND ?", min, max))
}

// ListByRoomType matches the stored variant text exactly, so "other" rooms
// only match the same free text.
func (r *Repository) ListByRoomType(ctx context.Context, room types.RoomType) ([]models.RoomPackage, error) {
	return r.list(r.DB(ctx).Where("room_type = ?", room))
}

func (r *Repository) ListByStyle(ctx context.Context, style types.StylePreference) ([]models.RoomPackage, error) {
	return r.list(r.DB(ctx).Where("style = ?", style))
}

func (r *Repository) ListByStyleAndRoomType(ctx context.Context, style types.StylePreference, room types.RoomType) ([]models.RoomPackage, error) {
	return r.list(r.DB(ctx).Where("style = ? AND room_type = ?", style, room))
}

func (r *Repository) list(query *gorm.DB) ([]models.RoomPackage, error) {
	var rows []models.RoomPackage
	if err := query.Order(directoryOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns nil when the id is unknown.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.RoomPackage, error) {
	return repo.Optional[models.RoomPackage](r.DB(ctx).Where("id = ?", id))
}

func (r *Repository) Create(ctx context.Context, pkg *models.RoomPackage) error {
	return r.DB(ctx).Create(pkg).Error
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.RoomPackage{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
