package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mirsal-ops/mirsal-backend/api/controllers"
	webhookcontrollers "github.com/mirsal-ops/mirsal-backend/api/controllers/webhooks"
	"github.com/mirsal-ops/mirsal-backend/api/middleware"
	"github.com/mirsal-ops/mirsal-backend/internal/automation"
	"github.com/mirsal-ops/mirsal-backend/internal/carriers"
	"github.com/mirsal-ops/mirsal-backend/internal/performance"
	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	"github.com/mirsal-ops/mirsal-backend/internal/tenants"
	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	"github.com/mirsal-ops/mirsal-backend/pkg/db"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
	"github.com/mirsal-ops/mirsal-backend/pkg/metrics"
	"github.com/mirsal-ops/mirsal-backend/pkg/redis"
)

// RouterParams wire every dependency of the HTTP surface.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Tenants      tenants.Repository
	Shipments    shipments.Service
	Automation   automation.Service
	Performance  performance.Service
	Registry     *carriers.Registry
	WebhookGuard *redis.IdempotencyGuard
	Metrics      *metrics.TrackingMetrics
	PromRegistry *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	cfg := p.Config
	logg := p.Logger

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var cache redis.Pinger
	if p.Redis != nil {
		cache = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, cache))
	})

	if p.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/{carrier}/{tenantID}", webhookcontrollers.CarrierWebhook(webhookcontrollers.CarrierWebhookParams{
			Tracking: p.Shipments,
			Tenants:  p.Tenants,
			Registry: p.Registry,
			Guard:    p.WebhookGuard,
			Metrics:  p.Metrics,
			Webhook:  cfg.Webhook,
			Logger:   logg,
		}))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.TenantAuth(p.Tenants, logg))

		r.Route("/tracking", func(r chi.Router) {
			r.Post("/events", controllers.RecordTrackingEvent(p.Shipments, logg))
			r.Post("/events/bulk", controllers.BulkRecordTrackingEvents(p.Shipments, logg))
		})

		r.Get("/orders/{reference}/shipment", controllers.GetShipmentByOrderReference(p.Shipments, logg))

		r.Route("/shipments", func(r chi.Router) {
			r.Get("/at-risk", controllers.ListAtRiskShipments(p.Shipments, logg))
			r.Post("/check-delays", controllers.CheckDelays(p.Shipments, logg))
		})

		r.Get("/automation/events", controllers.PollAutomationEvents(p.Automation, logg))

		r.Route("/carriers", func(r chi.Router) {
			r.Get("/metrics", controllers.GetCarrierMetrics(p.Performance, logg))
			r.Get("/scores", controllers.GetCarrierScores(p.Performance, logg))
			r.Get("/insights", controllers.GetCarrierInsights(p.Performance, logg))
			r.Get("/routing", controllers.GetRoutingRecommendations(p.Performance, logg))
		})

		r.Get("/dashboard/summary", controllers.GetDashboardSummary(p.Performance, logg))
	})

	return r
}
