package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryStore performs the conditional stock decrement inside the order
// transaction.
type InventoryStore interface {
	DecrementInventory(ctx context.Context, tx *gorm.DB, productID string, qty int64) (bool, error)
	FindProductTx(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error)
}

// Service is the order and checkout engine.
type Service interface {
	CalculateOrderTotal(ctx context.Context, items []ItemInput) (int64, error)
	PlaceOrder(ctx context.Context, caller string, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, caller, id string) (*models.Order, error)
	GetUserOrders(ctx context.Context, caller, userID string) ([]models.Order, error)
}

type service struct {
	repo      *Repository
	tx        txRunner
	inventory InventoryStore
	outbox    outbox.Emitter
	authz     users.Authorizer
	clock     clock.Clock
	metrics   *metrics.DomainMetrics
	logg      *logger.Logger
}

// Deps groups the collaborators of the orders service. Metrics is optional.
type Deps struct {
	Repo      *Repository
	Tx        txRunner
	Inventory InventoryStore
	Outbox    outbox.Emitter
	Authz     users.Authorizer
	Clock     clock.Clock
	Metrics   *metrics.DomainMetrics
	Logger    *logger.Logger
}

// NewService builds the order service with the required dependencies.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Inventory == nil:
		return nil, fmt.Errorf("inventory store required")
	case deps.Outbox == nil:
		return nil, fmt.Errorf("outbox emitter required")
	case deps.Authz == nil:
		return nil, fmt.Errorf("authorizer required")
	case deps.Clock == nil:
		return nil, fmt.Errorf("clock required")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:      deps.Repo,
		tx:        deps.Tx,
		inventory: deps.Inventory,
		outbox:    deps.Outbox,
		authz:     deps.Authz,
		clock:     deps.Clock,
		metrics:   deps.Metrics,
		logg:      logg,
	}, nil
}

func (s *service) CalculateOrderTotal(_ context.Context, items []ItemInput) (int64, error) {
	return CalculateOrderTotal(items)
}

// PlaceOrder validates the cart, reserves stock for every product and writes
// the order in a single transaction. Any failure leaves catalog and orders
// untouched.
func (s *service) PlaceOrder(ctx context.Context, caller string, input PlaceOrderInput) (*models.Order, error) {
	if err := users.RequirePrincipal(caller); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		s.metrics.OrderRejected("validation")
		return nil, err
	}
	total, err := CalculateOrderTotal(input.Items)
	if err != nil {
		s.metrics.OrderRejected("validation")
		return nil, err
	}
	if total != input.OrderTotal {
		s.metrics.OrderRejected("total_mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order total does not match items").
			WithDetails(map[string]int64{"expected": total, "submitted": input.OrderTotal})
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.reserve(ctx, tx, aggregate(input.Items)); err != nil {
			return err
		}

		order = input.toModel(id, caller, total, s.clock.Now())
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				s.metrics.OrderRejected("duplicate")
				return pkgerrors.Newf(pkgerrors.CodeConflict, "order %q already exists", id)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{Principal: caller},
			Data: payloads.OrderPlacedEvent{
				OrderID:       order.ID,
				BuyerID:       caller,
				BuyerName:     order.Buyer.Name,
				BuyerEmail:    order.Buyer.Email,
				TotalAmount:   order.TotalAmount,
				PaymentMethod: order.PaymentMethod,
				ItemCount:     len(order.Items),
				CreatedAt:     order.CreatedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderPlaced(order.PaymentMethod.String(), order.TotalAmount)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":    order.ID,
		"buyer_id":    caller,
		"total":       order.TotalAmount,
		"items_count": len(order.Items),
	}), "order placed")
	return order, nil
}

// reserve decrements stock for each product, collecting every shortfall
// before failing so the caller sees all of them.
func (s *service) reserve(ctx context.Context, tx *gorm.DB, lines []ItemInput) error {
	var shortfalls []InventoryShortfall
	for _, line := range lines {
		ok, err := s.inventory.DecrementInventory(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve inventory")
		}
		if ok {
			continue
		}
		product, err := s.inventory.FindProductTx(ctx, tx, line.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		shortfall := InventoryShortfall{ProductID: line.ProductID, Requested: line.Quantity, Reason: "unknown_product"}
		if product != nil {
			shortfall.Available = product.Inventory
			shortfall.Reason = "insufficient_inventory"
		}
		shortfalls = append(shortfalls, shortfall)
	}
	if len(shortfalls) > 0 {
		s.metrics.OrderRejected("inventory")
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient inventory").
			WithDetails(map[string]any{"items": shortfalls})
	}
	return nil
}

// GetOrder returns nil unless the caller is the buyer or an admin.
func (s *service) GetOrder(ctx context.Context, caller, id string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, nil
	}
	ok, err := users.CanAccessOwned(ctx, s.authz, caller, order.BuyerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return order, nil
}

func (s *service) GetUserOrders(ctx context.Context, caller, userID string) ([]models.Order, error) {
	if err := users.RequirePrincipal(caller); err != nil {
		return nil, err
	}
	ok, err := users.CanAccessOwned(ctx, s.authz, caller, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot list another user's orders")
	}
	rows, err := s.repo.ListByBuyer(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}
