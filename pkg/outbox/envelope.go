package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TenantRef identifies the tenant an event was produced for.
type TenantRef struct {
	TenantID uuid.UUID `json:"tenantId"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Tenant     *TenantRef      `json:"tenant,omitempty"`
	Data       json.RawMessage `json:"data"`
}
