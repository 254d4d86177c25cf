package models

import (
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// ProjectBrief is the design-quiz submission of a user.
type ProjectBrief struct {
	ID               string                  `gorm:"column:id;primaryKey" json:"id"`
	UserID           string                  `gorm:"column:user_id;not null;index" json:"userId"`
	RoomType         types.RoomType          `gorm:"column:room_type;type:text;not null" json:"roomType"`
	StylePreferences []types.StylePreference `gorm:"column:style_preferences;type:jsonb;serializer:json;not null" json:"stylePreferences"`
	Budget           types.BudgetRange       `gorm:"embedded;embeddedPrefix:budget_" json:"budget"`
	Timeline         string                  `gorm:"column:timeline;not null;default:''" json:"timeline"`
	SelectedPackage  *string                 `gorm:"column:selected_package" json:"selectedPackage,omitempty"`
	Status           enums.BriefStatus       `gorm:"column:status;not null" json:"status"`
	SubmissionDate   int64                   `gorm:"column:submission_date;not null" json:"submissionDate"`
	UpdatedAt        int64                   `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updatedAt"`
}

type ConsultationRequest struct {
	ID             string                   `gorm:"column:id;primaryKey" json:"id"`
	UserID         string                   `gorm:"column:user_id;not null;index" json:"userId"`
	ProjectID      *string                  `gorm:"column:project_id;index" json:"projectId,omitempty"`
	RequestedTime  int64                    `gorm:"column:requested_time;not null" json:"requestedTime"`
	Notes          string                   `gorm:"column:notes;not null;default:''" json:"notes"`
	Status         enums.ConsultationStatus `gorm:"column:status;not null" json:"status"`
	SubmissionDate int64                    `gorm:"column:submission_date;not null" json:"submissionDate"`
}

// ProjectNote is an append-only message on a brief.
type ProjectNote struct {
	ID        string `gorm:"column:id;primaryKey" json:"id"`
	UserID    string `gorm:"column:user_id;not null" json:"userId"`
	ProjectID string `gorm:"column:project_id;not null;index" json:"projectId"`
	Message   string `gorm:"column:message;not null" json:"message"`
	Timestamp int64  `gorm:"column:timestamp;not null" json:"timestamp"`
}
