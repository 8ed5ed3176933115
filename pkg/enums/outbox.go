package enums

// OutboxEventType identifies the domain event family stored in outbox_events.
type OutboxEventType string

const (
	EventShipmentDelayed  OutboxEventType = "shipment.delayed"
	EventShipmentFailed   OutboxEventType = "shipment.delivery_failed"
	EventShipmentReturned OutboxEventType = "shipment.returned"
)

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateShipment OutboxAggregateType = "shipment"
)

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}

// OutboxEventForAutomation maps an automation trigger type to the outbox
// event emitted alongside it.
func OutboxEventForAutomation(t AutomationEventType) OutboxEventType {
	switch t {
	case AutomationEventFailedDelivery:
		return EventShipmentFailed
	case AutomationEventReturnedShipment:
		return EventShipmentReturned
	default:
		return EventShipmentDelayed
	}
}
