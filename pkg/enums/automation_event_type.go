package enums

import "fmt"

// AutomationEventType classifies the signals the engine emits for the
// external workflow consumer.
type AutomationEventType string

const (
	AutomationEventDelayedOrder     AutomationEventType = "delayed_order"
	AutomationEventFailedDelivery   AutomationEventType = "failed_delivery"
	AutomationEventReturnedShipment AutomationEventType = "returned_shipment"
)

var validAutomationEventTypes = []AutomationEventType{
	AutomationEventDelayedOrder,
	AutomationEventFailedDelivery,
	AutomationEventReturnedShipment,
}

// String implements fmt.Stringer.
func (a AutomationEventType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AutomationEventType.
func (a AutomationEventType) IsValid() bool {
	for _, candidate := range validAutomationEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAutomationEventType converts raw input into an AutomationEventType.
func ParseAutomationEventType(value string) (AutomationEventType, error) {
	for _, candidate := range validAutomationEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid automation event type %q", value)
}
