package carriers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
)

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry()

	assert.Equal(t, CarrierAramex, registry.Resolve("aramex").Carrier())
	assert.Equal(t, CarrierAramex, registry.Resolve(" Aramex ").Carrier())
	assert.Equal(t, CarrierSMSA, registry.Resolve("smsa").Carrier())
	assert.Equal(t, CarrierGeneric, registry.Resolve("dhl").Carrier())
	assert.Equal(t, CarrierGeneric, registry.Resolve("").Carrier())
}

func TestAramexAdapterParseWebhook(t *testing.T) {
	payload := []byte(`{
		"reference": "ORD-1001",
		"waybill": "44120077821",
		"status": "Out for Delivery",
		"location": "Riyadh Hub",
		"comments": "With courier",
		"timestamp": "2026-03-14T08:30:00Z"
	}`)

	event, err := NewAramexAdapter().ParseWebhook(payload)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1001", event.OrderReference)
	assert.Equal(t, "44120077821", event.TrackingNumber)
	assert.Equal(t, "Out for Delivery", event.RawStatus)
	assert.Equal(t, "Riyadh Hub", event.Location)
	assert.Equal(t, "With courier", event.Description)
	require.NotNil(t, event.OccurredAt)
	assert.Equal(t, time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC), *event.OccurredAt)
}

func TestAramexAdapterMissingFields(t *testing.T) {
	_, err := NewAramexAdapter().ParseWebhook([]byte(`{"waybill":"123","status":"Delivered"}`))
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = NewAramexAdapter().ParseWebhook([]byte(`{"reference":"ORD-1"}`))
	require.Error(t, err)
}

func TestSMSAAdapterParseWebhook(t *testing.T) {
	payload := []byte(`{
		"refNo": "ORD-2002",
		"awb": "290045512",
		"activity": "Proof of Delivery Captured",
		"city": "Jeddah",
		"date": "2026-03-15 17:05:00"
	}`)

	event, err := NewSMSAAdapter().ParseWebhook(payload)
	require.NoError(t, err)

	assert.Equal(t, "ORD-2002", event.OrderReference)
	assert.Equal(t, "290045512", event.TrackingNumber)
	assert.Equal(t, "Proof of Delivery Captured", event.RawStatus)
	assert.Equal(t, "Jeddah", event.Location)
	require.NotNil(t, event.OccurredAt)
}

func TestSMSAAdapterMissingActivity(t *testing.T) {
	_, err := NewSMSAAdapter().ParseWebhook([]byte(`{"refNo":"ORD-2002","awb":"290045512"}`))
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestGenericAdapterFieldAliases(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"snake_case", `{"order_id":"ORD-3003","tracking_number":"TRK-1","status":"delivered"}`},
		{"camelCase", `{"orderId":"ORD-3003","trackingNumber":"TRK-1","status":"delivered"}`},
		{"reference-event", `{"reference":"ORD-3003","awb":"TRK-1","event":"delivered"}`},
	}

	adapter := NewGenericAdapter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := adapter.ParseWebhook([]byte(tc.payload))
			require.NoError(t, err)
			assert.Equal(t, "ORD-3003", event.OrderReference)
			assert.Equal(t, "TRK-1", event.TrackingNumber)
			assert.Equal(t, "delivered", event.RawStatus)
		})
	}
}

func TestGenericAdapterMissingOrderReference(t *testing.T) {
	_, err := NewGenericAdapter().ParseWebhook([]byte(`{"status":"delivered"}`))
	require.Error(t, err)
}

func TestAdaptersRejectMalformedJSON(t *testing.T) {
	for _, adapter := range []Adapter{NewAramexAdapter(), NewSMSAAdapter(), NewGenericAdapter()} {
		_, err := adapter.ParseWebhook([]byte(`not-json`))
		require.Error(t, err, adapter.Carrier())
	}
}

func TestAdapterRejectsBadTimestamp(t *testing.T) {
	_, err := NewGenericAdapter().ParseWebhook([]byte(`{"order_id":"ORD-1","status":"delivered","occurred_at":"yesterday"}`))
	require.Error(t, err)
}
