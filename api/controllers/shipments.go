package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mirsal-ops/mirsal-backend/api/middleware"
	"github.com/mirsal-ops/mirsal-backend/api/responses"
	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
)

// GetShipmentByOrderReference returns the shipment detail, full event
// ledger and current risk assessment for one order.
func GetShipmentByOrderReference(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())

		reference := strings.TrimSpace(chi.URLParam(r, "reference"))
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order reference required"))
			return
		}

		detail, err := svc.GetShipmentByOrderReference(r.Context(), tenantID, reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ListAtRiskShipments returns every open shipment currently flagged by the
// risk detector.
func ListAtRiskShipments(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())

		rows, err := svc.ListAtRisk(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"shipments": rows,
			"count":     len(rows),
		})
	}
}

// CheckDelays runs an on-demand delay sweep for the tenant. The cron worker
// runs the same sweep on a schedule.
func CheckDelays(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())

		result, err := svc.CheckDelays(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
