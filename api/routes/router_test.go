package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/internal/carriers"
	"github.com/mirsal-ops/mirsal-backend/internal/tenants"
	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
)

type stubTenantRepo struct{}

func (stubTenantRepo) WithTx(*gorm.DB) tenants.Repository { return stubTenantRepo{} }

func (stubTenantRepo) FindByID(context.Context, uuid.UUID) (*models.Tenant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubTenantRepo) FindByAPIKeyHash(context.Context, string) (*models.Tenant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubTenantRepo) ListActive(context.Context) ([]models.Tenant, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	return NewRouter(RouterParams{
		Config:   &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:   logger.New(logger.Options{ServiceName: "routes-test"}),
		Tenants:  stubTenantRepo{},
		Registry: carriers.NewRegistry(),
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", w.Header().Get("X-Mirsal-Env"))
}

func TestRouterRequiresAPIKey(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{
		"/api/v1/shipments/at-risk",
		"/api/v1/carriers/metrics",
		"/api/v1/dashboard/summary",
		"/api/v1/automation/events",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterWebhookRouteIsPublic(t *testing.T) {
	router := newTestRouter()

	// No API key: the webhook path authorizes by tenant secret instead, so
	// an unknown tenant reads as 401 from the webhook handler, not the
	// API-key middleware.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/aramex/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
