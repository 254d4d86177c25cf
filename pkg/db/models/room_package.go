package models

import "github.com/caffeinepub/sajavathub-com-sub000/pkg/types"

// RoomPackage bundles catalog products for one style and room. ProductIDs are
// weak references resolved at read time.
type RoomPackage struct {
	ID          string                `gorm:"column:id;primaryKey" json:"id"`
	Name        string                `gorm:"column:name;not null" json:"name"`
	Description string                `gorm:"column:description;not null;default:''" json:"description"`
	Style       types.StylePreference `gorm:"column:style;type:text;not null;index:idx_room_packages_style_room,priority:1" json:"style"`
	RoomType    types.RoomType        `gorm:"column:room_type;type:text;not null;index:idx_room_packages_style_room,priority:2" json:"roomType"`
	PriceINR    int64                 `gorm:"column:price_inr;not null" json:"priceINR"`
	ProductIDs  []string              `gorm:"column:product_ids;type:jsonb;serializer:json;not null" json:"productIds"`
	CreatedAt   int64                 `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
}
