package vendors

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/repo"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
)

// Repository persists vendors and OTP challenges.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

func (r *Repository) FindChallenge(ctx context.Context, mobile string) (*models.OtpChallenge, error) {
	return repo.Optional[models.OtpChallenge](r.DB(ctx).Where("mobile_number = ?", mobile))
}

// UpsertChallenge replaces whatever challenge the number held.
func (r *Repository) UpsertChallenge(ctx context.Context, challenge *models.OtpChallenge) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mobile_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "status", "issued_at", "expires_at", "verified_at"}),
	}).Create(challenge).Error
}

// DeleteChallenge removes the challenge issued at issuedAt. A newer challenge
// for the same number is left alone.
func (r *Repository) DeleteChallenge(ctx context.Context, mobile string, issuedAt int64) error {
	return r.DB(ctx).
		Where("mobile_number = ? AND issued_at = ?", mobile, issuedAt).
		Delete(&models.OtpChallenge{}).Error
}

// MarkVerified moves a pending challenge to verified.
func (r *Repository) MarkVerified(ctx context.Context, mobile string, issuedAt, at int64) (bool, error) {
	res := r.DB(ctx).Model(&models.OtpChallenge{}).
		Where("mobile_number = ? AND status = ? AND issued_at = ?", mobile, enums.OtpStatusPending, issuedAt).
		UpdateColumns(map[string]any{"status": enums.OtpStatusVerified, "verified_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteExpiredPending removes pending challenges whose code expired before
// now. Verified and consumed rows are kept.
func (r *Repository) DeleteExpiredPending(ctx context.Context, now int64) (int64, error) {
	res := r.DB(ctx).
		Where("status = ? AND expires_at < ?", enums.OtpStatusPending, now).
		Delete(&models.OtpChallenge{})
	return res.RowsAffected, res.Error
}

// ConsumeVerified spends a verified challenge.
func (r *Repository) ConsumeVerified(ctx context.Context, mobile string) (bool, error) {
	res := r.DB(ctx).Model(&models.OtpChallenge{}).
		Where("mobile_number = ? AND status = ?", mobile, enums.OtpStatusVerified).
		UpdateColumn("status", enums.OtpStatusConsumed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	return r.DB(ctx).Create(vendor).Error
}

func (r *Repository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var rows []models.Vendor
	if err := r.DB(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindVendorBy(ctx context.Context, column, value string) (*models.Vendor, error) {
	return repo.Optional[models.Vendor](r.DB(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}))
}
