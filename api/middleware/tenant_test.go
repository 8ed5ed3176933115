package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/internal/tenants"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
)

type stubTenantFinder struct {
	byHash map[string]*models.Tenant
	err    error
}

func (s *stubTenantFinder) FindByAPIKeyHash(_ context.Context, hash string) (*models.Tenant, error) {
	if s.err != nil {
		return nil, s.err
	}
	if tenant, ok := s.byHash[hash]; ok {
		return tenant, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestTenantAuthResolvesTenant(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New(), Name: "Acme", Active: true}
	finder := &stubTenantFinder{byHash: map[string]*models.Tenant{
		tenants.HashAPIKey("live-key"): tenant,
	}}

	var resolved *models.Tenant
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	handler := TenantAuth(finder, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = TenantFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Api-Key", "live-key")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, resolved)
	assert.Equal(t, tenant.ID, resolved.ID)
	assert.Equal(t, tenant.ID, TenantIDFromContext(WithTenant(context.Background(), tenant)))
}

func TestTenantAuthRejectsMissingKey(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	handler := TenantAuth(&stubTenantFinder{}, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantAuthRejectsUnknownKey(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	handler := TenantAuth(&stubTenantFinder{}, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Api-Key", "revoked-key")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantAuthSurfacesStoreFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	handler := TenantAuth(&stubTenantFinder{err: errors.New("db down")}, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Api-Key", "live-key")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
