package performance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
)

func setupPerformanceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE shipments (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  carrier TEXT NOT NULL,
  tracking_number TEXT,
  current_status TEXT NOT NULL DEFAULT 'CREATED',
  shipped_at DATETIME,
  delivered_at DATETIME,
  last_event_at DATETIME,
  event_count INTEGER NOT NULL DEFAULT 0,
  version INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE tracking_events (
  id TEXT PRIMARY KEY,
  shipment_id TEXT NOT NULL,
  tenant_id TEXT NOT NULL,
  carrier TEXT NOT NULL,
  raw_status TEXT NOT NULL,
  status TEXT NOT NULL,
  location TEXT,
  description TEXT,
  source TEXT NOT NULL,
  raw_payload TEXT,
  seq INTEGER NOT NULL,
  occurred_at DATETIME NOT NULL,
  recorded_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

type perfFixture struct {
	db       *gorm.DB
	svc      Service
	tenantID uuid.UUID
	now      time.Time
}

func newPerfFixture(t *testing.T) *perfFixture {
	t.Helper()

	f := &perfFixture{
		db:       setupPerformanceTestDB(t),
		tenantID: uuid.New(),
		now:      time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC),
	}

	svc, err := NewService(
		NewRepository(f.db),
		config.ScoringConfig{SpeedBaselineHours: 48, SpeedWindowHours: 96, SpeedWeight: 0.3, ReliabilityWeight: 0.5, ReturnRateWeight: 0.2},
		config.TrackingConfig{DelayWarningAfter: 48 * time.Hour, CriticalDelayAfter: 72 * time.Hour},
		func() time.Time { return f.now },
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// seedLedger creates one shipment with a full ledger in the given statuses,
// each event spaced hoursApart.
func (f *perfFixture) seedLedger(t *testing.T, carrier string, createdAt time.Time, hoursApart float64, statuses ...enums.ShipmentStatus) models.Shipment {
	t.Helper()

	current := enums.ShipmentStatusCreated
	if len(statuses) > 0 {
		current = statuses[len(statuses)-1]
	}
	lastEventAt := createdAt.Add(time.Duration(float64(len(statuses)-1) * hoursApart * float64(time.Hour)))

	shipment := models.Shipment{
		ID:            uuid.New(),
		TenantID:      f.tenantID,
		OrderID:       uuid.New(),
		Carrier:       carrier,
		CurrentStatus: current,
		LastEventAt:   &lastEventAt,
		EventCount:    len(statuses),
		CreatedAt:     createdAt,
	}
	require.NoError(t, f.db.Create(&shipment).Error)

	for i, status := range statuses {
		event := models.TrackingEvent{
			ID:         uuid.New(),
			ShipmentID: shipment.ID,
			TenantID:   f.tenantID,
			Carrier:    carrier,
			RawStatus:  status.String(),
			Status:     status,
			Source:     enums.EventSourceWebhook,
			Seq:        i + 1,
			OccurredAt: createdAt.Add(time.Duration(float64(i) * hoursApart * float64(time.Hour))),
			RecordedAt: createdAt.Add(time.Duration(float64(i) * hoursApart * float64(time.Hour))),
		}
		require.NoError(t, f.db.Create(&event).Error)
	}
	return shipment
}

func TestGetCarrierMetricsGroupsByCarrier(t *testing.T) {
	f := newPerfFixture(t)
	start := f.now.Add(-40 * time.Hour)

	// aramex: delivered in 30h (CREATED → PICKED_UP → DELIVERED, 15h apart).
	f.seedLedger(t, "aramex", start, 15, enums.ShipmentStatusCreated, enums.ShipmentStatusPickedUp, enums.ShipmentStatusDelivered)
	// aramex: still moving.
	f.seedLedger(t, "aramex", start, 1, enums.ShipmentStatusCreated, enums.ShipmentStatusInTransit)
	// smsa: failed.
	f.seedLedger(t, "smsa", start, 2, enums.ShipmentStatusCreated, enums.ShipmentStatusFailed)

	metrics, err := f.svc.GetCarrierMetrics(context.Background(), f.tenantID, DateRange{})
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	// Sorted by carrier name for stable output.
	assert.Equal(t, "aramex", metrics[0].Carrier)
	assert.Equal(t, "smsa", metrics[1].Carrier)

	aramex := metrics[0]
	assert.Equal(t, 2, aramex.Total)
	assert.Equal(t, 1, aramex.Delivered)
	assert.Equal(t, 1, aramex.InTransit)
	assert.InDelta(t, 50.0, aramex.DeliverySuccessRate, 0.001)
	require.NotNil(t, aramex.AvgDeliveryTimeHours)
	assert.InDelta(t, 30.0, *aramex.AvgDeliveryTimeHours, 0.001)

	smsa := metrics[1]
	assert.Equal(t, 1, smsa.Failed)
	assert.Nil(t, smsa.AvgDeliveryTimeHours)
}

func TestGetCarrierScoresAndRouting(t *testing.T) {
	f := newPerfFixture(t)
	start := f.now.Add(-60 * time.Hour)

	f.seedLedger(t, "aramex", start, 16, enums.ShipmentStatusCreated, enums.ShipmentStatusPickedUp, enums.ShipmentStatusDelivered)
	f.seedLedger(t, "smsa", start, 2, enums.ShipmentStatusCreated, enums.ShipmentStatusFailed)

	scores, err := f.svc.GetCarrierScores(context.Background(), f.tenantID, DateRange{})
	require.NoError(t, err)
	require.Len(t, scores, 2)

	recs, err := f.svc.GetRoutingRecommendations(context.Background(), f.tenantID, DateRange{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	general := recommendationFor(recs, ScenarioGeneral)
	require.NotNil(t, general)
	assert.Equal(t, "aramex", general.Carrier)
}

func TestGetRoutingRecommendationsEmptyTenant(t *testing.T) {
	f := newPerfFixture(t)

	recs, err := f.svc.GetRoutingRecommendations(context.Background(), f.tenantID, DateRange{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestGetDashboardSummary(t *testing.T) {
	f := newPerfFixture(t)

	f.seedLedger(t, "aramex", f.now.Add(-20*time.Hour), 5, enums.ShipmentStatusCreated, enums.ShipmentStatusPickedUp, enums.ShipmentStatusDelivered)
	f.seedLedger(t, "aramex", f.now.Add(-10*time.Hour), 1, enums.ShipmentStatusCreated, enums.ShipmentStatusInTransit)
	// Stale shipment: last event 60h ago, counts at-risk.
	f.seedLedger(t, "smsa", f.now.Add(-60*time.Hour), 0, enums.ShipmentStatusInTransit)

	summary, err := f.svc.GetDashboardSummary(context.Background(), f.tenantID, DateRange{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalShipments)
	assert.Equal(t, 2, summary.CarrierCount)
	assert.Equal(t, 1, summary.StatusBreakdown[enums.ShipmentStatusDelivered])
	assert.Equal(t, 2, summary.StatusBreakdown[enums.ShipmentStatusInTransit])
	assert.Equal(t, 1, summary.AtRiskCount)
	require.NotNil(t, summary.TopCarrier)
	assert.Equal(t, "aramex", summary.TopCarrier.Carrier)
}

func TestDateRangeFiltersShipments(t *testing.T) {
	f := newPerfFixture(t)

	inside := f.now.Add(-24 * time.Hour)
	outside := f.now.Add(-30 * 24 * time.Hour)
	f.seedLedger(t, "aramex", inside, 4, enums.ShipmentStatusCreated, enums.ShipmentStatusDelivered)
	f.seedLedger(t, "aramex", outside, 4, enums.ShipmentStatusCreated, enums.ShipmentStatusDelivered)

	from := f.now.Add(-48 * time.Hour)
	metrics, err := f.svc.GetCarrierMetrics(context.Background(), f.tenantID, DateRange{From: &from})
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, 1, metrics[0].Total)
}

func TestComputeMetricsValidation(t *testing.T) {
	f := newPerfFixture(t)

	_, err := f.svc.GetCarrierMetrics(context.Background(), uuid.Nil, DateRange{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	from := f.now
	to := f.now.Add(-time.Hour)
	_, err = f.svc.GetCarrierMetrics(context.Background(), f.tenantID, DateRange{From: &from, To: &to})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
