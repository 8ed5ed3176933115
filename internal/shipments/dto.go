package shipments

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

// RecordEventInput carries one inbound tracking observation, regardless of
// whether it arrived via webhook, poller or a manual correction.
type RecordEventInput struct {
	TenantID       uuid.UUID
	OrderReference string
	Carrier        string
	TrackingNumber string
	RawStatus      string
	Location       string
	Description    string
	Source         enums.EventSource
	OccurredAt     *time.Time
	RawPayload     types.JSONMap
}

// RecordEventResult reports what one append changed.
type RecordEventResult struct {
	ShipmentID      uuid.UUID            `json:"shipment_id"`
	OrderID         uuid.UUID            `json:"order_id"`
	Seq             int                  `json:"seq"`
	RawStatus       string               `json:"raw_status"`
	Status          enums.ShipmentStatus `json:"status"`
	OrderStatus     enums.OrderStatus    `json:"order_status"`
	ShipmentCreated bool                 `json:"shipment_created"`
}

// BulkItemResult reports the outcome of one item of a bulk ingest, in
// submission order. Status is set only on success; Code/Message only on
// failure.
type BulkItemResult struct {
	Index          int                  `json:"index"`
	OrderReference string               `json:"order_reference"`
	Success        bool                 `json:"success"`
	Status         enums.ShipmentStatus `json:"status,omitempty"`
	Code           string               `json:"code,omitempty"`
	Message        string               `json:"message,omitempty"`
}

// BulkRecordResult summarizes a bulk ingest. Failures never abort the batch;
// Results holds one entry per submitted item.
type BulkRecordResult struct {
	Recorded int              `json:"recorded"`
	Failed   int              `json:"failed"`
	Results  []BulkItemResult `json:"results"`
}

// EventView is one ledger entry as exposed over the API.
type EventView struct {
	ID          uuid.UUID            `json:"id"`
	Seq         int                  `json:"seq"`
	RawStatus   string               `json:"raw_status"`
	Status      enums.ShipmentStatus `json:"status"`
	Location    *string              `json:"location,omitempty"`
	Description *string              `json:"description,omitempty"`
	Source      enums.EventSource    `json:"source"`
	OccurredAt  time.Time            `json:"occurred_at"`
	RecordedAt  time.Time            `json:"recorded_at"`
}

// RiskView is the risk assessment attached to shipment reads.
type RiskView struct {
	AtRisk              bool             `json:"at_risk"`
	Reason              enums.RiskReason `json:"reason,omitempty"`
	HoursSinceLastEvent float64          `json:"hours_since_last_event"`
}

// ShipmentDetail is the full tracking view for one order.
type ShipmentDetail struct {
	ShipmentID     uuid.UUID            `json:"shipment_id"`
	OrderID        uuid.UUID            `json:"order_id"`
	OrderReference string               `json:"order_reference"`
	OrderStatus    enums.OrderStatus    `json:"order_status"`
	Carrier        string               `json:"carrier"`
	TrackingNumber *string              `json:"tracking_number,omitempty"`
	CurrentStatus  enums.ShipmentStatus `json:"current_status"`
	ShippedAt      *time.Time           `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
	LastEventAt    *time.Time           `json:"last_event_at,omitempty"`
	EventCount     int                  `json:"event_count"`
	Events         []EventView          `json:"events"`
	Risk           RiskView             `json:"risk"`
}

// AtRiskShipment is one row of the at-risk listing.
type AtRiskShipment struct {
	ShipmentID          uuid.UUID            `json:"shipment_id"`
	OrderID             uuid.UUID            `json:"order_id"`
	OrderReference      string               `json:"order_reference"`
	Carrier             string               `json:"carrier"`
	CurrentStatus       enums.ShipmentStatus `json:"current_status"`
	LastEventAt         *time.Time           `json:"last_event_at,omitempty"`
	HoursSinceLastEvent float64              `json:"hours_since_last_event"`
	Reason              enums.RiskReason     `json:"reason"`
}

// DelayCheckResult reports one sweep of the delay detector. Delayed counts
// every shipment found past a delay threshold; Triggered counts only the
// ones that got a fresh delayed_order trigger (open triggers dedupe).
type DelayCheckResult struct {
	Checked   int `json:"checked"`
	Delayed   int `json:"delayed"`
	Triggered int `json:"triggered"`
}
