package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirsal-ops/mirsal-backend/api/middleware"
	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

type stubShipmentsService struct {
	recorded   []shipments.RecordEventInput
	result     *shipments.RecordEventResult
	bulkResult *shipments.BulkRecordResult
	err        error
}

func (s *stubShipmentsService) RecordEvent(_ context.Context, input shipments.RecordEventInput) (*shipments.RecordEventResult, error) {
	s.recorded = append(s.recorded, input)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubShipmentsService) BulkRecordEvents(_ context.Context, _ uuid.UUID, inputs []shipments.RecordEventInput) (*shipments.BulkRecordResult, error) {
	s.recorded = append(s.recorded, inputs...)
	if s.err != nil {
		return nil, s.err
	}
	return s.bulkResult, nil
}

func (s *stubShipmentsService) GetShipmentByOrderReference(context.Context, uuid.UUID, string) (*shipments.ShipmentDetail, error) {
	return nil, s.err
}

func (s *stubShipmentsService) ListAtRisk(context.Context, uuid.UUID) ([]shipments.AtRiskShipment, error) {
	return nil, s.err
}

func (s *stubShipmentsService) CheckDelays(context.Context, uuid.UUID) (*shipments.DelayCheckResult, error) {
	return &shipments.DelayCheckResult{Checked: 2, Delayed: 1, Triggered: 1}, s.err
}

func tenantRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	tenant := &models.Tenant{ID: uuid.New(), Active: true}
	return req.WithContext(middleware.WithTenant(req.Context(), tenant))
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test"})
}

func TestRecordTrackingEventCreatesShipment(t *testing.T) {
	svc := &stubShipmentsService{result: &shipments.RecordEventResult{Seq: 1, ShipmentCreated: true}}
	handler := RecordTrackingEvent(svc, testLogger())

	body := `{"order_reference":"ORD-100","carrier":"aramex","raw_status":"Shipment Picked Up"}`
	w := httptest.NewRecorder()
	handler(w, tenantRequest(http.MethodPost, "/api/v1/tracking/events", body))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.recorded, 1)
	assert.Equal(t, "ORD-100", svc.recorded[0].OrderReference)
	assert.Equal(t, "aramex", svc.recorded[0].Carrier)
}

func TestRecordTrackingEventExistingShipmentReturns200(t *testing.T) {
	svc := &stubShipmentsService{result: &shipments.RecordEventResult{Seq: 3}}
	handler := RecordTrackingEvent(svc, testLogger())

	body := `{"order_reference":"ORD-100","carrier":"aramex","raw_status":"Delivered"}`
	w := httptest.NewRecorder()
	handler(w, tenantRequest(http.MethodPost, "/api/v1/tracking/events", body))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecordTrackingEventRejectsMissingFields(t *testing.T) {
	svc := &stubShipmentsService{}
	handler := RecordTrackingEvent(svc, testLogger())

	w := httptest.NewRecorder()
	handler(w, tenantRequest(http.MethodPost, "/api/v1/tracking/events", `{"carrier":"aramex"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.recorded)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}

func TestRecordTrackingEventMapsUnknownOrder(t *testing.T) {
	svc := &stubShipmentsService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := RecordTrackingEvent(svc, testLogger())

	body := `{"order_reference":"ORD-404","carrier":"aramex","raw_status":"In Transit"}`
	w := httptest.NewRecorder()
	handler(w, tenantRequest(http.MethodPost, "/api/v1/tracking/events", body))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkRecordTrackingEvents(t *testing.T) {
	svc := &stubShipmentsService{bulkResult: &shipments.BulkRecordResult{
		Recorded: 1,
		Failed:   1,
		Results: []shipments.BulkItemResult{
			{Index: 0, OrderReference: "ORD-1", Success: true, Status: enums.ShipmentStatusDelivered},
			{Index: 1, OrderReference: "ORD-404", Code: string(pkgerrors.CodeNotFound), Message: "order not found"},
		},
	}}
	handler := BulkRecordTrackingEvents(svc, testLogger())

	body := `{"events":[
		{"order_reference":"ORD-1","carrier":"aramex","raw_status":"Delivered"},
		{"order_reference":"ORD-404","carrier":"aramex","raw_status":"Delivered"}
	]}`
	w := httptest.NewRecorder()
	handler(w, tenantRequest(http.MethodPost, "/api/v1/tracking/events/bulk", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.recorded, 2)

	var envelope struct {
		Data shipments.BulkRecordResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, 1, envelope.Data.Recorded)
	assert.Equal(t, 1, envelope.Data.Failed)
	require.Len(t, envelope.Data.Results, 2)
	assert.True(t, envelope.Data.Results[0].Success)
	assert.Equal(t, enums.ShipmentStatusDelivered, envelope.Data.Results[0].Status)
	assert.False(t, envelope.Data.Results[1].Success)
	assert.Equal(t, "ORD-404", envelope.Data.Results[1].OrderReference)
}

func TestBulkRecordTrackingEventsRejectsEmptyBatch(t *testing.T) {
	svc := &stubShipmentsService{}
	handler := BulkRecordTrackingEvents(svc, testLogger())

	w := httptest.NewRecorder()
	handler(w, tenantRequest(http.MethodPost, "/api/v1/tracking/events/bulk", `{"events":[]}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.recorded)
}
