package orders

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

var maxTotal = decimal.NewFromInt(math.MaxInt64)

// ItemInput is one cart line with the price captured at cart time.
type ItemInput struct {
	ProductID string
	Quantity  int64
	Price     int64
}

// PlaceOrderInput is the checkout request. An empty ID is generated.
type PlaceOrderInput struct {
	ID               string
	Items            []ItemInput
	PaymentMethod    enums.PaymentMethod
	DeliveryAddress  string
	GiftCardPurchase *types.GiftCardPurchase
	BuyerInfo        types.BuyerInfo
	OrderTotal       int64
}

// CalculateOrderTotal sums quantity*price over items; an empty cart totals 0.
// It rejects non-positive quantities, negative prices and totals that overflow
// int64.
func CalculateOrderTotal(items []ItemInput) (int64, error) {
	total := decimal.Zero
	for i, item := range items {
		if err := item.validate(i); err != nil {
			return 0, err
		}
		total = total.Add(decimal.NewFromInt(item.Quantity).Mul(decimal.NewFromInt(item.Price)))
	}
	if total.GreaterThan(maxTotal) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order total is too large")
	}
	return total.IntPart(), nil
}

func (item ItemInput) validate(index int) error {
	switch {
	case strings.TrimSpace(item.ProductID) == "":
		return itemError(index, "productId", "is required")
	case item.Quantity < 1:
		return itemError(index, "quantity", "must be at least 1")
	case item.Price < 0:
		return itemError(index, "price", "must be at least 0")
	}
	return nil
}

func itemError(index int, field, msg string) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "item %d: %s %s", index, field, msg).
		WithDetails(map[string]any{"index": index, "field": field, "error": msg})
}

func (in PlaceOrderInput) validate() error {
	if len(in.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	details := map[string]string{}
	if !in.PaymentMethod.IsValid() {
		details["paymentMethod"] = "is invalid"
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		details["deliveryAddress"] = "is required"
	}
	if strings.TrimSpace(in.BuyerInfo.Name) == "" {
		details["buyerInfo.name"] = "is required"
	}
	if strings.TrimSpace(in.BuyerInfo.Email) == "" {
		details["buyerInfo.email"] = "is required"
	}
	if gc := in.GiftCardPurchase; gc != nil {
		if gc.Amount < 0 {
			details["giftCardPurchase.amount"] = "must be at least 0"
		}
		if strings.TrimSpace(gc.RecipientEmail) == "" {
			details["giftCardPurchase.recipientEmail"] = "is required"
		}
	}
	if in.OrderTotal < 0 {
		details["orderTotal"] = "must be at least 0"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order").WithDetails(details)
	}
	return nil
}

// aggregate sums quantities per product, sorted by product id so concurrent
// orders take row locks in the same order.
func aggregate(items []ItemInput) []ItemInput {
	byProduct := make(map[string]int64, len(items))
	for _, item := range items {
		byProduct[strings.TrimSpace(item.ProductID)] += item.Quantity
	}
	out := make([]ItemInput, 0, len(byProduct))
	for id, qty := range byProduct {
		out = append(out, ItemInput{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (in PlaceOrderInput) toModel(id, buyerID string, total, createdAt int64) *models.Order {
	items := make([]models.OrderItem, 0, len(in.Items))
	for i, item := range in.Items {
		items = append(items, models.OrderItem{
			OrderID:   id,
			Position:  i,
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	buyer := in.BuyerInfo
	buyer.Name = strings.TrimSpace(buyer.Name)
	buyer.Email = strings.TrimSpace(buyer.Email)
	buyer.Phone = strings.TrimSpace(buyer.Phone)
	buyer.Address = strings.TrimSpace(buyer.Address)
	return &models.Order{
		ID:               id,
		BuyerID:          buyerID,
		Items:            items,
		TotalAmount:      total,
		PaymentMethod:    in.PaymentMethod,
		Status:           enums.OrderStatusPending,
		CreatedAt:        createdAt,
		DeliveryAddress:  strings.TrimSpace(in.DeliveryAddress),
		Buyer:            buyer,
		GiftCardPurchase: in.GiftCardPurchase,
	}
}

// InventoryShortfall describes one product that could not be reserved.
type InventoryShortfall struct {
	ProductID string `json:"productId"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
	Reason    string `json:"reason"`
}
