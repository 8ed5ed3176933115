package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

// Tenant represents one merchant account on the platform. Carrier webhook
// secrets are stored per carrier so each integration can rotate its secret
// independently.
type Tenant struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string        `gorm:"column:name;not null"`
	APIKeyHash     string        `gorm:"column:api_key_hash;not null;uniqueIndex:ux_tenants_api_key_hash"`
	WebhookSecrets types.JSONMap `gorm:"column:webhook_secrets;type:jsonb;serializer:json"`
	// No default tag: with one, Create skips a zero-value false and the
	// column default silently resurrects the tenant as active.
	Active bool `gorm:"column:active;not null"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// WebhookSecret returns the stored secret for a carrier, empty when not
// configured.
func (t Tenant) WebhookSecret(carrier string) string {
	if t.WebhookSecrets == nil {
		return ""
	}
	if v, ok := t.WebhookSecrets[carrier].(string); ok {
		return v
	}
	return ""
}
