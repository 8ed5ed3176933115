package controllers

import (
	"net/http"
	"strings"

	"github.com/mirsal-ops/mirsal-backend/api/middleware"
	"github.com/mirsal-ops/mirsal-backend/api/responses"
	"github.com/mirsal-ops/mirsal-backend/api/validators"
	"github.com/mirsal-ops/mirsal-backend/internal/automation"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
)

const maxAutomationPollLimit = 500

// PollAutomationEvents returns pending automation triggers for the tenant's
// workflow consumers. With clear=true the returned batch is consumed
// atomically, so a crash between read and ack re-delivers.
func PollAutomationEvents(svc automation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())

		query := automation.PollQuery{TenantID: tenantID}

		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			eventType := enums.AutomationEventType(raw)
			if !eventType.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown automation event type").
					WithDetails(map[string]any{"type": raw}))
				return
			}
			query.Type = &eventType
		}

		since, err := validators.ParseQueryTime(r, "since")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.Since = since

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxAutomationPollLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.Limit = limit

		clear, err := validators.ParseQueryBool(r, "clear", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.ClearAfterRead = clear

		events, err := svc.Poll(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"events": events,
			"count":  len(events),
		})
	}
}
