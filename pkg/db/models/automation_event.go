package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

// AutomationEvent is a durable trigger signal for the external workflow
// consumer. Rows survive restarts; Poll with clearAfterRead stamps
// consumed_at instead of deleting so delivery stays auditable.
type AutomationEvent struct {
	ID          uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID                 `gorm:"column:tenant_id;type:uuid;not null;index:ix_automation_events_tenant"`
	Type        enums.AutomationEventType `gorm:"column:type;type:text;not null"`
	ShipmentID  uuid.UUID                 `gorm:"column:shipment_id;type:uuid;not null"`
	OrderID     uuid.UUID                 `gorm:"column:order_id;type:uuid;not null"`
	Payload     types.JSONMap             `gorm:"column:payload;type:jsonb;serializer:json"`
	TriggeredAt time.Time                 `gorm:"column:triggered_at;not null"`
	ConsumedAt  *time.Time                `gorm:"column:consumed_at"`
	CreatedAt   time.Time                 `gorm:"column:created_at;autoCreateTime"`
}
