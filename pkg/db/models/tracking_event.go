package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

// TrackingEvent is one carrier-reported status change. Rows are append-only:
// the engine only ever INSERTs here. Seq captures insertion order within a
// shipment's ledger, which is the order that drives current-status and
// timeline derivation; OccurredAt is the carrier-reported time and may lag or
// lead Seq for late-arriving webhooks.
type TrackingEvent struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShipmentID  uuid.UUID            `gorm:"column:shipment_id;type:uuid;not null;index:ix_tracking_events_shipment"`
	TenantID    uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null"`
	Carrier     string               `gorm:"column:carrier;not null"`
	RawStatus   string               `gorm:"column:raw_status;not null"`
	Status      enums.ShipmentStatus `gorm:"column:status;type:text;not null"`
	Location    *string              `gorm:"column:location"`
	Description *string              `gorm:"column:description"`
	Source      enums.EventSource    `gorm:"column:source;type:text;not null"`
	RawPayload  types.JSONMap        `gorm:"column:raw_payload;type:jsonb;serializer:json"`
	Seq         int                  `gorm:"column:seq;not null"`
	OccurredAt  time.Time            `gorm:"column:occurred_at;not null"`
	RecordedAt  time.Time            `gorm:"column:recorded_at;not null"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
