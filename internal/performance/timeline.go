package performance

import (
	"time"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// Timeline is the derived per-phase view of one shipment's ledger. It is
// never persisted; analytics recompute it from the events on every query.
type Timeline struct {
	ShipmentID string
	Carrier    string

	AssignedAt       *time.Time
	PickedUpAt       *time.Time
	InTransitAt      *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	FailedAt         *time.Time
	ReturnedAt       *time.Time

	PickupDelayHours      *float64
	TransitTimeHours      *float64
	DeliveryDurationHours *float64
	ReturnCycleHours      *float64
}

// ComputeTimeline walks the ledger in insertion order and records the first
// occurrence of each phase. Durations (fractional hours) exist only when
// both endpoints do, and are deliberately not clamped: a negative value
// surfaces a genuine ordering anomaly instead of hiding it.
func ComputeTimeline(shipment models.Shipment, events []models.TrackingEvent) Timeline {
	timeline := Timeline{
		ShipmentID: shipment.ID.String(),
		Carrier:    shipment.Carrier,
	}

	for _, event := range events {
		occurredAt := event.OccurredAt
		switch event.Status {
		case enums.ShipmentStatusCreated:
			setFirst(&timeline.AssignedAt, occurredAt)
		case enums.ShipmentStatusPickedUp:
			setFirst(&timeline.PickedUpAt, occurredAt)
		case enums.ShipmentStatusInTransit:
			setFirst(&timeline.InTransitAt, occurredAt)
		case enums.ShipmentStatusOutForDelivery:
			setFirst(&timeline.OutForDeliveryAt, occurredAt)
		case enums.ShipmentStatusDelivered:
			setFirst(&timeline.DeliveredAt, occurredAt)
		case enums.ShipmentStatusFailed:
			setFirst(&timeline.FailedAt, occurredAt)
		case enums.ShipmentStatusReturned:
			setFirst(&timeline.ReturnedAt, occurredAt)
		}
	}

	timeline.PickupDelayHours = hoursBetween(timeline.AssignedAt, timeline.PickedUpAt)
	timeline.TransitTimeHours = hoursBetween(timeline.PickedUpAt, timeline.DeliveredAt)
	timeline.DeliveryDurationHours = hoursBetween(timeline.AssignedAt, timeline.DeliveredAt)
	timeline.ReturnCycleHours = hoursBetween(timeline.AssignedAt, timeline.ReturnedAt)

	return timeline
}

func setFirst(slot **time.Time, value time.Time) {
	if *slot == nil {
		v := value
		*slot = &v
	}
}

func hoursBetween(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	hours := end.Sub(*start).Hours()
	return &hours
}
