package automation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// Repository defines persistence operations for the durable automation
// event queue.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, event *models.AutomationEvent) error
	ExistsOpenDelay(ctx context.Context, shipmentID uuid.UUID) (bool, error)
	Poll(ctx context.Context, tenantID uuid.UUID, filter PollFilter) ([]models.AutomationEvent, error)
	MarkConsumed(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// PollFilter narrows a poll to a type and/or a lower time bound. Limit caps
// the batch; zero means the repository default.
type PollFilter struct {
	Type  *enums.AutomationEventType
	Since *time.Time
	Limit int
}
