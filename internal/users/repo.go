package users

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/repo"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
)

// Repository exposes role and profile persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindRole returns the role assignment for userID, or nil when none exists.
func (r *Repository) FindRole(ctx context.Context, userID string) (*models.UserRoleAssignment, error) {
	return repo.Optional[models.UserRoleAssignment](r.DB(ctx).Where("user_id = ?", userID))
}

// ClaimFirstAdmin inserts an admin assignment for userID only when no admin
// exists yet. It reports whether the row was written.
func (r *Repository) ClaimFirstAdmin(ctx context.Context, userID string, at int64) (bool, error) {
	res := r.DB(ctx).Exec(
		`INSERT INTO user_roles (user_id, role, assigned_by, assigned_at)
		 SELECT ?, ?, ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM user_roles WHERE role = ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, enums.UserRoleAdmin, userID, at, enums.UserRoleAdmin,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// InsertRoleIfMissing records role for userID unless an assignment exists.
func (r *Repository) InsertRoleIfMissing(ctx context.Context, row models.UserRoleAssignment) error {
	return r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// UpsertRole overwrites the role assignment for row.UserID.
func (r *Repository) UpsertRole(ctx context.Context, row models.UserRoleAssignment) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "assigned_by", "assigned_at"}),
	}).Create(&row).Error
}

// FindProfile returns the stored profile, or nil when none exists.
func (r *Repository) FindProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return repo.Optional[models.UserProfile](r.DB(ctx).Where("user_id = ?", userID))
}

// SaveProfile upserts profile; created_at is kept from the existing row.
func (r *Repository) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "email", "address", "phone", "style_preferences", "updated_at",
		}),
	}).Create(profile).Error
}
