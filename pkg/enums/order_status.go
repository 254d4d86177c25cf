package enums

// OrderStatus is the lifecycle label stored on orders. Placement is the only
// transition this service performs.
type OrderStatus string

const OrderStatusPending OrderStatus = "pending"

func (s OrderStatus) String() string {
	return string(s)
}
