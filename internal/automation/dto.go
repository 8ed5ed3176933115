package automation

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

// EnqueueInput carries everything needed to durably queue one trigger.
type EnqueueInput struct {
	TenantID    uuid.UUID
	Type        enums.AutomationEventType
	ShipmentID  uuid.UUID
	OrderID     uuid.UUID
	Payload     types.JSONMap
	TriggeredAt time.Time
}

// PollQuery describes one consumer poll.
type PollQuery struct {
	TenantID       uuid.UUID
	Type           *enums.AutomationEventType
	Since          *time.Time
	Limit          int
	ClearAfterRead bool
}

// Event is the consumer-facing view of a queued trigger.
type Event struct {
	ID          uuid.UUID                 `json:"id"`
	Type        enums.AutomationEventType `json:"type"`
	ShipmentID  uuid.UUID                 `json:"shipment_id"`
	OrderID     uuid.UUID                 `json:"order_id"`
	Payload     types.JSONMap             `json:"payload"`
	TriggeredAt time.Time                 `json:"triggered_at"`
}
