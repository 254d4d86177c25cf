package controllers

import (
	"context"
	"net/http"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/orders"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

type orderItemPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
	Price     int64  `json:"price" validate:"gte=0"`
}

type calculateTotalArgs struct {
	Items []orderItemPayload `json:"items" validate:"dive"`
}

type placeOrderArgs struct {
	Order struct {
		ID               string                  `json:"id"`
		Items            []orderItemPayload      `json:"items" validate:"min=1,dive"`
		PaymentMethod    enums.PaymentMethod     `json:"paymentMethod" validate:"required"`
		DeliveryAddress  string                  `json:"deliveryAddress" validate:"required"`
		GiftCardPurchase *types.GiftCardPurchase `json:"giftCardPurchase"`
	} `json:"order"`
	BuyerInfo  types.BuyerInfo `json:"buyerInfo"`
	OrderTotal int64           `json:"orderTotal" validate:"gte=0"`
}

func (a placeOrderArgs) toInput() orders.PlaceOrderInput {
	return orders.PlaceOrderInput{
		ID:               a.Order.ID,
		Items:            toItemInputs(a.Order.Items),
		PaymentMethod:    a.Order.PaymentMethod,
		DeliveryAddress:  a.Order.DeliveryAddress,
		GiftCardPurchase: a.Order.GiftCardPurchase,
		BuyerInfo:        a.BuyerInfo,
		OrderTotal:       a.OrderTotal,
	}
}

type userIDArgs struct {
	UserID string `json:"userId"`
}

func toItemInputs(items []orderItemPayload) []orders.ItemInput {
	out := make([]orders.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, orders.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return out
}

// CalculateOrderTotal returns sum(quantity * price) over the items.
func CalculateOrderTotal(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *calculateTotalArgs) (int64, error) {
		return svc.CalculateOrderTotal(ctx, toItemInputs(args.Items))
	})
}

func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *placeOrderArgs) (*models.Order, error) {
		return svc.PlaceOrder(ctx, caller, args.toInput())
	})
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *idArgs) (*models.Order, error) {
		return svc.GetOrder(ctx, caller, args.ID)
	})
}

func GetUserOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *userIDArgs) ([]models.Order, error) {
		return svc.GetUserOrders(ctx, caller, args.UserID)
	})
}
