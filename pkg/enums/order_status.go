package enums

import "fmt"

// OrderStatus mirrors the status field owned by the order-management
// collaborator. The tracking engine only ever moves it through the fixed
// shipment-status projection.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusReturned   OrderStatus = "returned"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusReturned,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatusForShipment returns the order status projected from a canonical
// shipment status. FAILED deliberately keeps the order at shipped: a failed
// attempt is still retryable by the carrier.
func OrderStatusForShipment(status ShipmentStatus) OrderStatus {
	switch status {
	case ShipmentStatusCreated, ShipmentStatusPickedUp:
		return OrderStatusProcessing
	case ShipmentStatusInTransit, ShipmentStatusOutForDelivery, ShipmentStatusFailed:
		return OrderStatusShipped
	case ShipmentStatusDelivered:
		return OrderStatusDelivered
	case ShipmentStatusReturned:
		return OrderStatusReturned
	default:
		return OrderStatusShipped
	}
}
