package tenants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
)

// Repository defines tenant lookups. The platform never creates tenants
// through this service; provisioning happens out of band.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	FindByAPIKeyHash(ctx context.Context, hash string) (*models.Tenant, error)
	ListActive(ctx context.Context) ([]models.Tenant, error)
}
