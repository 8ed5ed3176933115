package automation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

const defaultPollLimit = 100

type repository struct {
	db *gorm.DB
}

// NewRepository builds an automation queue repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, event *models.AutomationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ExistsOpenDelay reports whether the shipment already has an unconsumed
// delayed_order row. The partial unique index backs the same invariant at
// the storage layer for the concurrent case.
func (r *repository) ExistsOpenDelay(ctx context.Context, shipmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AutomationEvent{}).
		Where("shipment_id = ? AND type = ? AND consumed_at IS NULL", shipmentID, enums.AutomationEventDelayedOrder).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Poll(ctx context.Context, tenantID uuid.UUID, filter PollFilter) ([]models.AutomationEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPollLimit
	}

	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND consumed_at IS NULL", tenantID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Since != nil {
		query = query.Where("triggered_at >= ?", *filter.Since)
	}

	var rows []models.AutomationEvent
	err := query.
		Order("triggered_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) MarkConsumed(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.AutomationEvent{}).
		Where("id IN ? AND consumed_at IS NULL", ids).
		Update("consumed_at", at).Error
}
