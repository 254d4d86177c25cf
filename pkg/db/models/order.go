package models

import (
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

// Order is a placed checkout. Item prices are the ones captured at cart time.
type Order struct {
	ID               string                  `gorm:"column:id;primaryKey" json:"id"`
	BuyerID          string                  `gorm:"column:buyer_id;not null;index" json:"buyerId"`
	Items            []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount      int64                   `gorm:"column:total_amount;not null" json:"totalAmount"`
	PaymentMethod    enums.PaymentMethod     `gorm:"column:payment_method;not null" json:"paymentMethod"`
	Status           enums.OrderStatus       `gorm:"column:status;not null" json:"status"`
	CreatedAt        int64                   `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	DeliveryAddress  string                  `gorm:"column:delivery_address;not null" json:"deliveryAddress"`
	Buyer            types.BuyerInfo         `gorm:"embedded;embeddedPrefix:buyer_" json:"buyerInfo"`
	GiftCardPurchase *types.GiftCardPurchase `gorm:"column:gift_card_purchase;type:jsonb;serializer:json" json:"giftCardPurchase,omitempty"`
}

type OrderItem struct {
	OrderID   string `gorm:"column:order_id;primaryKey" json:"-"`
	Position  int    `gorm:"column:position;primaryKey" json:"-"`
	ProductID string `gorm:"column:product_id;not null;index" json:"productId"`
	Quantity  int64  `gorm:"column:quantity;not null" json:"quantity"`
	Price     int64  `gorm:"column:price;not null" json:"price"`
}
