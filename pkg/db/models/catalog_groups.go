package models

import "github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"

// ProductCategory holds an ordered list of product references.
type ProductCategory struct {
	ID          string   `gorm:"column:id;primaryKey" json:"id"`
	Name        string   `gorm:"column:name;not null" json:"name"`
	Description string   `gorm:"column:description;not null;default:''" json:"description"`
	ProductIDs  []string `gorm:"column:product_ids;type:jsonb;serializer:json;not null" json:"productIds"`
	CreatedAt   int64    `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
}

type ProductBrand struct {
	ID          string `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name;not null" json:"name"`
	Description string `gorm:"column:description;not null;default:''" json:"description"`
	LogoURL     string `gorm:"column:logo_url;not null;default:''" json:"logoUrl"`
	CreatedAt   int64  `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
}

// FurnitureCategory groups furniture products under a sub-category tag.
type FurnitureCategory struct {
	ID          string                     `gorm:"column:id;primaryKey" json:"id"`
	Name        string                     `gorm:"column:name;not null" json:"name"`
	SubCategory enums.FurnitureSubCategory `gorm:"column:sub_category;not null;index" json:"subCategory"`
	ProductIDs  []string                   `gorm:"column:product_ids;type:jsonb;serializer:json;not null" json:"productIds"`
	CreatedAt   int64                      `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
}
