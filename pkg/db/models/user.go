package models

import (
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// UserProfile is keyed by the caller principal; saves are upserts.
type UserProfile struct {
	UserID           string                  `gorm:"column:user_id;primaryKey" json:"-"`
	Name             string                  `gorm:"column:name;not null" json:"name"`
	Email            string                  `gorm:"column:email;not null" json:"email"`
	Address          *string                 `gorm:"column:address" json:"address,omitempty"`
	Phone            string                  `gorm:"column:phone;not null;default:''" json:"phone"`
	StylePreferences []types.StylePreference `gorm:"column:style_preferences;type:jsonb;serializer:json;not null" json:"stylePreferences"`
	CreatedAt        int64                   `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt        int64                   `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"-"`
}

// UserRoleAssignment records the platform role of a principal.
type UserRoleAssignment struct {
	UserID     string         `gorm:"column:user_id;primaryKey"`
	Role       enums.UserRole `gorm:"column:role;not null;index"`
	AssignedBy string         `gorm:"column:assigned_by;not null;default:''"`
	AssignedAt int64          `gorm:"column:assigned_at;not null"`
}

func (UserRoleAssignment) TableName() string { return "user_roles" }
