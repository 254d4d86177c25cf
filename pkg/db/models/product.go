package models

import "github.com/caffeinepub/sajavathub-com-sub000/pkg/types"

// Product is a catalog listing. Inventory is only mutated by order placement.
type Product struct {
	ID              string                `gorm:"column:id;primaryKey" json:"id"`
	Name            string                `gorm:"column:name;not null" json:"name"`
	Description     string                `gorm:"column:description;not null;default:''" json:"description"`
	ImageURL        string                `gorm:"column:image_url;not null;default:''" json:"imageUrl"`
	BrandID         string                `gorm:"column:brand_id;not null;index" json:"brandId"`
	PriceINR        int64                 `gorm:"column:price_inr;not null" json:"priceINR"`
	Inventory       int64                 `gorm:"column:inventory;not null" json:"inventory"`
	StylePreference types.StylePreference `gorm:"column:style_preference;type:text;not null" json:"stylePreference"`
	RoomType        types.RoomType        `gorm:"column:room_type;type:text;not null" json:"roomType"`
	CreatedAt       int64                 `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
}
