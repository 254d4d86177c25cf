package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/repo"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
)

// Repository persists orders and their line items.
type Repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

// Create inserts the order row and its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

// FindByID returns the order with items in cart order, or nil.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return repo.Optional[models.Order](r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id))
}

// ListByBuyer returns the buyer's orders oldest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("buyer_id = ?", buyerID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
