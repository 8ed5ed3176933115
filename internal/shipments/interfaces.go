package shipments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// ErrVersionConflict signals that a concurrent append advanced the shipment
// between our read and write. Callers retry the whole read-append cycle.
var ErrVersionConflict = errors.New("shipment modified concurrently")

// Repository defines persistence operations for shipments and their
// tracking-event ledgers. Tracking events are append-only: no update or
// delete operation exists on them by construction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrderByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	FindShipmentByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Shipment, error)
	CreateShipment(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error)
	AppendEvent(ctx context.Context, event *models.TrackingEvent, shipmentUpdates map[string]any, expectedVersion int64) error
	ListEvents(ctx context.Context, shipmentID uuid.UUID) ([]models.TrackingEvent, error)
	ListNonTerminal(ctx context.Context, tenantID uuid.UUID) ([]models.Shipment, error)
	FindOrderReferences(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]string, error)
}
