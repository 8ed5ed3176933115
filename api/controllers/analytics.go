package controllers

import (
	"net/http"

	"github.com/mirsal-ops/mirsal-backend/api/middleware"
	"github.com/mirsal-ops/mirsal-backend/api/responses"
	"github.com/mirsal-ops/mirsal-backend/api/validators"
	"github.com/mirsal-ops/mirsal-backend/internal/performance"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
)

func parseDateRange(r *http.Request) (performance.DateRange, error) {
	from, err := validators.ParseQueryTime(r, "from")
	if err != nil {
		return performance.DateRange{}, err
	}
	to, err := validators.ParseQueryTime(r, "to")
	if err != nil {
		return performance.DateRange{}, err
	}
	return performance.DateRange{From: from, To: to}, nil
}

// GetCarrierMetrics returns per-carrier delivery outcome metrics for the
// requested window.
func GetCarrierMetrics(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())
		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		metrics, err := svc.GetCarrierMetrics(r.Context(), tenantID, window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"carriers": metrics})
	}
}

// GetCarrierScores returns composite carrier scores and tiers.
func GetCarrierScores(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())
		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scores, err := svc.GetCarrierScores(r.Context(), tenantID, window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"scores": scores})
	}
}

// GetCarrierInsights returns fleet-relative carrier observations.
func GetCarrierInsights(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())
		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		insights, err := svc.GetInsights(r.Context(), tenantID, window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"insights": insights})
	}
}

// GetRoutingRecommendations returns the per-scenario carrier picks.
func GetRoutingRecommendations(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())
		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recommendations, err := svc.GetRoutingRecommendations(r.Context(), tenantID, window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"recommendations": recommendations})
	}
}

// GetDashboardSummary returns the tenant-wide tracking overview.
func GetDashboardSummary(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())
		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.GetDashboardSummary(r.Context(), tenantID, window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
