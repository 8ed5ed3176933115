package automation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/outbox"
)

type stubAutomationRepo struct {
	inserted   []models.AutomationEvent
	openDelays map[uuid.UUID]bool
	pollRows   []models.AutomationEvent
	consumed   []uuid.UUID
	insertErr  error
}

func (s *stubAutomationRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAutomationRepo) Insert(ctx context.Context, event *models.AutomationEvent) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	event.ID = uuid.New()
	s.inserted = append(s.inserted, *event)
	return nil
}

func (s *stubAutomationRepo) ExistsOpenDelay(ctx context.Context, shipmentID uuid.UUID) (bool, error) {
	return s.openDelays[shipmentID], nil
}

func (s *stubAutomationRepo) Poll(ctx context.Context, tenantID uuid.UUID, filter PollFilter) ([]models.AutomationEvent, error) {
	return s.pollRows, nil
}

func (s *stubAutomationRepo) MarkConsumed(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	s.consumed = append(s.consumed, ids...)
	return nil
}

type stubOutbox struct {
	emitted      []outbox.DomainEvent
	dedupedEmits []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.emitted = append(s.emitted, event)
	return nil
}

func (s *stubOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.dedupedEmits = append(s.dedupedEmits, event)
	return nil
}

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newAutomationServiceForTest(t *testing.T, repo Repository, ob outboxEmitter) (Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	svc, err := NewService(repo, sqliteTxRunner{db: db}, ob, nil, nil)
	require.NoError(t, err)
	return svc, db
}

func TestEnqueueTxMirrorsToOutbox(t *testing.T) {
	repo := &stubAutomationRepo{}
	ob := &stubOutbox{}
	svc, db := newAutomationServiceForTest(t, repo, ob)

	input := EnqueueInput{
		TenantID:    uuid.New(),
		Type:        enums.AutomationEventFailedDelivery,
		ShipmentID:  uuid.New(),
		OrderID:     uuid.New(),
		TriggeredAt: time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.EnqueueTx(context.Background(), db, input))

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, enums.AutomationEventFailedDelivery, repo.inserted[0].Type)

	require.Len(t, ob.emitted, 1)
	assert.Equal(t, enums.EventShipmentFailed, ob.emitted[0].EventType)
	assert.Equal(t, enums.AggregateShipment, ob.emitted[0].AggregateType)
	assert.Equal(t, input.ShipmentID, ob.emitted[0].AggregateID)
	require.NotNil(t, ob.emitted[0].Tenant)
	assert.Equal(t, input.TenantID, ob.emitted[0].Tenant.TenantID)
}

func TestEnqueueTxValidation(t *testing.T) {
	repo := &stubAutomationRepo{}
	svc, db := newAutomationServiceForTest(t, repo, &stubOutbox{})

	err := svc.EnqueueTx(context.Background(), db, EnqueueInput{
		Type:       enums.AutomationEventFailedDelivery,
		ShipmentID: uuid.New(),
		OrderID:    uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, repo.inserted)

	err = svc.EnqueueTx(context.Background(), nil, EnqueueInput{})
	require.Error(t, err)
}

func TestEnqueueDelayTxSkipsOpenTrigger(t *testing.T) {
	shipmentID := uuid.New()
	repo := &stubAutomationRepo{openDelays: map[uuid.UUID]bool{shipmentID: true}}
	ob := &stubOutbox{}
	svc, db := newAutomationServiceForTest(t, repo, ob)

	enqueued, err := svc.EnqueueDelayTx(context.Background(), db, EnqueueInput{
		TenantID:   uuid.New(),
		ShipmentID: shipmentID,
		OrderID:    uuid.New(),
	})
	require.NoError(t, err)
	assert.False(t, enqueued)
	assert.Empty(t, repo.inserted)
	assert.Empty(t, ob.dedupedEmits)
}

func TestEnqueueDelayTxEnqueuesFreshTrigger(t *testing.T) {
	repo := &stubAutomationRepo{}
	ob := &stubOutbox{}
	svc, db := newAutomationServiceForTest(t, repo, ob)

	enqueued, err := svc.EnqueueDelayTx(context.Background(), db, EnqueueInput{
		TenantID:   uuid.New(),
		ShipmentID: uuid.New(),
		OrderID:    uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, enqueued)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, enums.AutomationEventDelayedOrder, repo.inserted[0].Type)
	require.Len(t, ob.dedupedEmits, 1)
	assert.Equal(t, enums.EventShipmentDelayed, ob.dedupedEmits[0].EventType)
}

func TestPollWithClearAfterReadStampsConsumed(t *testing.T) {
	tenantID := uuid.New()
	rows := []models.AutomationEvent{
		{ID: uuid.New(), TenantID: tenantID, Type: enums.AutomationEventDelayedOrder, ShipmentID: uuid.New(), OrderID: uuid.New(), TriggeredAt: time.Now().UTC()},
		{ID: uuid.New(), TenantID: tenantID, Type: enums.AutomationEventFailedDelivery, ShipmentID: uuid.New(), OrderID: uuid.New(), TriggeredAt: time.Now().UTC()},
	}
	repo := &stubAutomationRepo{pollRows: rows}
	svc, _ := newAutomationServiceForTest(t, repo, &stubOutbox{})

	events, err := svc.Poll(context.Background(), PollQuery{TenantID: tenantID, ClearAfterRead: true})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.ElementsMatch(t, []uuid.UUID{rows[0].ID, rows[1].ID}, repo.consumed)
}

func TestPollWithoutClearLeavesRows(t *testing.T) {
	tenantID := uuid.New()
	repo := &stubAutomationRepo{pollRows: []models.AutomationEvent{
		{ID: uuid.New(), TenantID: tenantID, Type: enums.AutomationEventDelayedOrder, ShipmentID: uuid.New(), OrderID: uuid.New(), TriggeredAt: time.Now().UTC()},
	}}
	svc, _ := newAutomationServiceForTest(t, repo, &stubOutbox{})

	events, err := svc.Poll(context.Background(), PollQuery{TenantID: tenantID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, repo.consumed)
}

func TestPollRequiresTenant(t *testing.T) {
	svc, _ := newAutomationServiceForTest(t, &stubAutomationRepo{}, &stubOutbox{})
	_, err := svc.Poll(context.Background(), PollQuery{})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
