package shipments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shipments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrderByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference = ?", tenantID, reference).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *repository) FindShipmentByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) CreateShipment(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error) {
	if err := r.db.WithContext(ctx).Create(shipment).Error; err != nil {
		return nil, err
	}
	return shipment, nil
}

// AppendEvent writes the denormalized shipment columns guarded by the
// optimistic version check, then inserts the ledger row. Zero rows affected
// means another append won the race; the caller re-reads and retries.
func (r *repository) AppendEvent(ctx context.Context, event *models.TrackingEvent, shipmentUpdates map[string]any, expectedVersion int64) error {
	updates := make(map[string]any, len(shipmentUpdates)+1)
	for k, v := range shipmentUpdates {
		updates[k] = v
	}
	updates["version"] = expectedVersion + 1

	res := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ? AND version = ?", event.ShipmentID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListEvents(ctx context.Context, shipmentID uuid.UUID) ([]models.TrackingEvent, error) {
	var rows []models.TrackingEvent
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("seq ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListNonTerminal(ctx context.Context, tenantID uuid.UUID) ([]models.Shipment, error) {
	var rows []models.Shipment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND current_status NOT IN ?", tenantID, []enums.ShipmentStatus{
			enums.ShipmentStatusDelivered,
			enums.ShipmentStatusReturned,
		}).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindOrderReferences(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	refs := make(map[uuid.UUID]string, len(orderIDs))
	if len(orderIDs) == 0 {
		return refs, nil
	}

	var rows []models.Order
	err := r.db.WithContext(ctx).
		Select("id", "reference").
		Where("id IN ?", orderIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		refs[row.ID] = row.Reference
	}
	return refs, nil
}
