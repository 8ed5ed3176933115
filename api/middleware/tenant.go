package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/api/responses"
	"github.com/mirsal-ops/mirsal-backend/internal/tenants"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
)

const apiKeyHeader = "X-Api-Key"

type tenantFinder interface {
	FindByAPIKeyHash(ctx context.Context, hash string) (*models.Tenant, error)
}

// TenantAuth validates the tenant API key and seeds the request context with
// the tenant. Only active tenants resolve; a revoked key reads as unknown.
func TenantAuth(repo tenantFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(apiKeyHeader))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing api key"))
				return
			}

			tenant, err := repo.FindByAPIKeyHash(r.Context(), tenants.HashAPIKey(key))
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving tenant"))
				return
			}

			ctx := WithTenant(r.Context(), tenant)
			if logg != nil {
				ctx = logg.WithTenantID(ctx, tenant.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
