package performance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

func ledgerEvent(seq int, status enums.ShipmentStatus, occurredAt time.Time) models.TrackingEvent {
	return models.TrackingEvent{
		ID:         uuid.New(),
		Status:     status,
		Seq:        seq,
		OccurredAt: occurredAt,
	}
}

func TestComputeTimelineFullLifecycle(t *testing.T) {
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	shipment := models.Shipment{ID: uuid.New(), Carrier: "aramex"}
	events := []models.TrackingEvent{
		ledgerEvent(1, enums.ShipmentStatusCreated, base),
		ledgerEvent(2, enums.ShipmentStatusPickedUp, base.Add(6*time.Hour)),
		ledgerEvent(3, enums.ShipmentStatusInTransit, base.Add(12*time.Hour)),
		ledgerEvent(4, enums.ShipmentStatusDelivered, base.Add(30*time.Hour)),
	}

	timeline := ComputeTimeline(shipment, events)

	require.NotNil(t, timeline.AssignedAt)
	require.NotNil(t, timeline.PickedUpAt)
	require.NotNil(t, timeline.DeliveredAt)
	assert.Equal(t, "aramex", timeline.Carrier)

	require.NotNil(t, timeline.PickupDelayHours)
	assert.InDelta(t, 6.0, *timeline.PickupDelayHours, 0.001)
	require.NotNil(t, timeline.TransitTimeHours)
	assert.InDelta(t, 24.0, *timeline.TransitTimeHours, 0.001)
	require.NotNil(t, timeline.DeliveryDurationHours)
	assert.InDelta(t, 30.0, *timeline.DeliveryDurationHours, 0.001)
	assert.Nil(t, timeline.ReturnCycleHours)
}

func TestComputeTimelineFirstOccurrenceWins(t *testing.T) {
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	shipment := models.Shipment{ID: uuid.New(), Carrier: "smsa"}
	events := []models.TrackingEvent{
		ledgerEvent(1, enums.ShipmentStatusInTransit, base),
		ledgerEvent(2, enums.ShipmentStatusInTransit, base.Add(5*time.Hour)),
		ledgerEvent(3, enums.ShipmentStatusInTransit, base.Add(9*time.Hour)),
	}

	timeline := ComputeTimeline(shipment, events)
	require.NotNil(t, timeline.InTransitAt)
	assert.True(t, timeline.InTransitAt.Equal(base))
}

func TestComputeTimelinePickupDelayAbsentWithoutPickup(t *testing.T) {
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	shipment := models.Shipment{ID: uuid.New(), Carrier: "generic"}
	events := []models.TrackingEvent{
		ledgerEvent(1, enums.ShipmentStatusCreated, base),
		ledgerEvent(2, enums.ShipmentStatusInTransit, base.Add(4*time.Hour)),
	}

	timeline := ComputeTimeline(shipment, events)
	assert.Nil(t, timeline.PickedUpAt)
	assert.Nil(t, timeline.PickupDelayHours)
	assert.Nil(t, timeline.TransitTimeHours)
}

func TestComputeTimelineNegativeDurationSurvives(t *testing.T) {
	// A pickup scan reported before the creation scan is an anomaly the
	// timeline must expose, not clamp away.
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	shipment := models.Shipment{ID: uuid.New(), Carrier: "aramex"}
	events := []models.TrackingEvent{
		ledgerEvent(1, enums.ShipmentStatusCreated, base),
		ledgerEvent(2, enums.ShipmentStatusPickedUp, base.Add(-3*time.Hour)),
	}

	timeline := ComputeTimeline(shipment, events)
	require.NotNil(t, timeline.PickupDelayHours)
	assert.InDelta(t, -3.0, *timeline.PickupDelayHours, 0.001)
}

func TestComputeTimelineEmptyLedger(t *testing.T) {
	timeline := ComputeTimeline(models.Shipment{ID: uuid.New(), Carrier: "aramex"}, nil)
	assert.Nil(t, timeline.AssignedAt)
	assert.Nil(t, timeline.DeliveredAt)
	assert.Nil(t, timeline.DeliveryDurationHours)
}
