package performance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
)

// DateRange bounds an analytics window. Nil endpoints leave that side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Repository loads ledger snapshots for analytics reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListLedgers(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]models.Shipment, error)
}
