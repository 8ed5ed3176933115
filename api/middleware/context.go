package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
)

type contextKey string

const ctxTenant contextKey = "tenant"

// WithTenant injects the authenticated tenant into the context.
func WithTenant(ctx context.Context, tenant *models.Tenant) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTenant, tenant)
}

// TenantFromContext returns the authenticated tenant, nil when the request
// did not pass tenant auth.
func TenantFromContext(ctx context.Context) *models.Tenant {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxTenant).(*models.Tenant); ok {
		return v
	}
	return nil
}

// TenantIDFromContext returns the authenticated tenant's id, uuid.Nil when
// absent.
func TenantIDFromContext(ctx context.Context) uuid.UUID {
	if tenant := TenantFromContext(ctx); tenant != nil {
		return tenant.ID
	}
	return uuid.Nil
}
