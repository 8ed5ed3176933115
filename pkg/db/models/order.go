package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// Order is the minimal projection of the order-management collaborator's
// record. The tracking engine reads it by tenant-scoped reference and only
// ever writes the status column.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:ux_orders_tenant_reference"`
	Reference string            `gorm:"column:reference;not null;uniqueIndex:ux_orders_tenant_reference"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
