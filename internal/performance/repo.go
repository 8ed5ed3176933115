package performance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListLedgers returns a tenant's shipments with their full ledgers in
// insertion order. The window filters on shipment creation time.
func (r *repository) ListLedgers(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]models.Shipment, error) {
	query := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("tenant_id = ?", tenantID)
	if window.From != nil {
		query = query.Where("created_at >= ?", *window.From)
	}
	if window.To != nil {
		query = query.Where("created_at <= ?", *window.To)
	}

	var rows []models.Shipment
	err := query.Order("created_at ASC").Find(&rows).Error
	return rows, err
}
