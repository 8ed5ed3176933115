package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// Shipment is one order's delivery record. It is created lazily on the first
// tracking event, never deleted, and stays mutable even after reaching a
// terminal status so a correcting event can still append.
//
// Version guards the read-then-write of the denormalized columns: two
// concurrent appends for the same shipment race on current_status, and the
// optimistic check turns the silent clobber into a retryable conflict.
type Shipment struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;index:ix_shipments_tenant"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_shipments_order"`
	Carrier        string               `gorm:"column:carrier;not null;index:ix_shipments_carrier"`
	TrackingNumber *string              `gorm:"column:tracking_number"`
	CurrentStatus  enums.ShipmentStatus `gorm:"column:current_status;type:text;not null;default:'CREATED'"`
	ShippedAt      *time.Time           `gorm:"column:shipped_at"`
	DeliveredAt    *time.Time           `gorm:"column:delivered_at"`
	LastEventAt    *time.Time           `gorm:"column:last_event_at"`
	EventCount     int                  `gorm:"column:event_count;not null;default:0"`
	Version        int64                `gorm:"column:version;not null;default:0"`
	Events         []TrackingEvent      `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
