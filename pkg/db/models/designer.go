package models

import "github.com/caffeinepub/sajavathub-com-sub000/pkg/types"

type Designer struct {
	ID        string                  `gorm:"column:id;primaryKey" json:"id"`
	Name      string                  `gorm:"column:name;not null" json:"name"`
	Bio       string                  `gorm:"column:bio;not null;default:''" json:"bio"`
	Styles    []types.StylePreference `gorm:"column:styles;type:jsonb;serializer:json;not null" json:"styles"`
	Portfolio []types.PortfolioItem   `gorm:"column:portfolio;type:jsonb;serializer:json;not null" json:"portfolio"`
	CreatedAt int64                   `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
}
