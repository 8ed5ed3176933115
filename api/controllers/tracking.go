package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/api/middleware"
	"github.com/mirsal-ops/mirsal-backend/api/responses"
	"github.com/mirsal-ops/mirsal-backend/api/validators"
	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

// trackingEventRequest is one inbound observation. OccurredAt defaults to the
// ingestion time when the source cannot supply one.
type trackingEventRequest struct {
	OrderReference string        `json:"order_reference" validate:"required"`
	Carrier        string        `json:"carrier" validate:"required"`
	TrackingNumber string        `json:"tracking_number"`
	RawStatus      string        `json:"raw_status" validate:"required"`
	Location       string        `json:"location"`
	Description    string        `json:"description"`
	Source         string        `json:"source"`
	OccurredAt     *time.Time    `json:"occurred_at"`
	RawPayload     types.JSONMap `json:"raw_payload"`
}

type bulkTrackingRequest struct {
	Events []trackingEventRequest `json:"events" validate:"required,min=1"`
}

func (req trackingEventRequest) toInput(tenantID uuid.UUID) shipments.RecordEventInput {
	return shipments.RecordEventInput{
		TenantID:       tenantID,
		OrderReference: req.OrderReference,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		RawStatus:      req.RawStatus,
		Location:       req.Location,
		Description:    req.Description,
		Source:         enums.EventSource(req.Source),
		OccurredAt:     req.OccurredAt,
		RawPayload:     req.RawPayload,
	}
}

// RecordTrackingEvent ingests a single tracking event for the tenant.
func RecordTrackingEvent(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())

		var req trackingEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RecordEvent(r.Context(), req.toInput(tenantID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if result.ShipmentCreated {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

// BulkRecordTrackingEvents ingests a batch of tracking events. Item failures
// never abort the batch; each failed index comes back in the response.
func BulkRecordTrackingEvents(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantIDFromContext(r.Context())

		var req bulkTrackingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]shipments.RecordEventInput, 0, len(req.Events))
		for _, event := range req.Events {
			inputs = append(inputs, event.toInput(tenantID))
		}

		result, err := svc.BulkRecordEvents(r.Context(), tenantID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
