package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/mirsal-ops/mirsal-backend/pkg/db"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
	"github.com/mirsal-ops/mirsal-backend/pkg/metrics"
	"github.com/mirsal-ops/mirsal-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns the durable automation queue: ingestion-side enqueue and the
// consumer-side poll.
type Service interface {
	EnqueueTx(ctx context.Context, tx *gorm.DB, input EnqueueInput) error
	EnqueueDelayTx(ctx context.Context, tx *gorm.DB, input EnqueueInput) (bool, error)
	Poll(ctx context.Context, query PollQuery) ([]Event, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxEmitter
	metrics *metrics.TrackingMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the automation queue service.
func NewService(repo Repository, tx txRunner, ob outboxEmitter, m *metrics.TrackingMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("automation repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  ob,
		metrics: m,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// EnqueueTx inserts one trigger row and mirrors it into the outbox in the
// same transaction, so the external consumer sees it via pull or push but
// never via one and not the other.
func (s *service) EnqueueTx(ctx context.Context, tx *gorm.DB, input EnqueueInput) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required for automation enqueue")
	}
	if err := validateEnqueue(input); err != nil {
		return err
	}
	if input.TriggeredAt.IsZero() {
		input.TriggeredAt = s.now()
	}

	row := models.AutomationEvent{
		TenantID:    input.TenantID,
		Type:        input.Type,
		ShipmentID:  input.ShipmentID,
		OrderID:     input.OrderID,
		Payload:     input.Payload,
		TriggeredAt: input.TriggeredAt,
	}
	if err := s.repo.WithTx(tx).Insert(ctx, &row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting automation event")
	}

	if err := s.outbox.Emit(ctx, tx, s.domainEvent(input)); err != nil {
		return err
	}

	s.metrics.IncAutomationEnqueued(input.Type.String())
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"automation_type": input.Type.String(),
			"shipment_id":     input.ShipmentID.String(),
		})
		s.logg.Info(logCtx, "automation event enqueued")
	}
	return nil
}

// EnqueueDelayTx enqueues a delayed_order trigger only when the shipment has
// no open one. Returns false when the trigger already exists. The partial
// unique index catches the concurrent double-enqueue the existence check
// cannot see.
func (s *service) EnqueueDelayTx(ctx context.Context, tx *gorm.DB, input EnqueueInput) (bool, error) {
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeInternal, "transaction required for automation enqueue")
	}
	input.Type = enums.AutomationEventDelayedOrder

	exists, err := s.repo.WithTx(tx).ExistsOpenDelay(ctx, input.ShipmentID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking open delay trigger")
	}
	if exists {
		return false, nil
	}

	if err := validateEnqueue(input); err != nil {
		return false, err
	}
	if input.TriggeredAt.IsZero() {
		input.TriggeredAt = s.now()
	}

	row := models.AutomationEvent{
		TenantID:    input.TenantID,
		Type:        input.Type,
		ShipmentID:  input.ShipmentID,
		OrderID:     input.OrderID,
		Payload:     input.Payload,
		TriggeredAt: input.TriggeredAt,
	}
	if err := s.repo.WithTx(tx).Insert(ctx, &row); err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_automation_events_open_delay") {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting delay trigger")
	}

	if err := s.outbox.EmitIfNotExists(ctx, tx, s.domainEvent(input)); err != nil {
		return false, err
	}

	s.metrics.IncAutomationEnqueued(input.Type.String())
	return true, nil
}

// Poll returns unconsumed triggers for a tenant in trigger order. With
// ClearAfterRead the returned rows are stamped consumed inside the same
// transaction, so a crash between read and stamp re-delivers rather than
// drops.
func (s *service) Poll(ctx context.Context, query PollQuery) ([]Event, error) {
	if query.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}

	filter := PollFilter{Type: query.Type, Since: query.Since, Limit: query.Limit}

	var rows []models.AutomationEvent
	if query.ClearAfterRead {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			fetched, err := repo.Poll(ctx, query.TenantID, filter)
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(fetched))
			for _, row := range fetched {
				ids = append(ids, row.ID)
			}
			if err := repo.MarkConsumed(ctx, ids, s.now()); err != nil {
				return err
			}
			rows = fetched
			return nil
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "polling automation events")
		}
	} else {
		fetched, err := s.repo.Poll(ctx, query.TenantID, filter)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "polling automation events")
		}
		rows = fetched
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, Event{
			ID:          row.ID,
			Type:        row.Type,
			ShipmentID:  row.ShipmentID,
			OrderID:     row.OrderID,
			Payload:     row.Payload,
			TriggeredAt: row.TriggeredAt,
		})
	}
	return events, nil
}

func (s *service) domainEvent(input EnqueueInput) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     enums.OutboxEventForAutomation(input.Type),
		AggregateType: enums.AggregateShipment,
		AggregateID:   input.ShipmentID,
		Tenant:        &outbox.TenantRef{TenantID: input.TenantID},
		Data: Event{
			Type:        input.Type,
			ShipmentID:  input.ShipmentID,
			OrderID:     input.OrderID,
			Payload:     input.Payload,
			TriggeredAt: input.TriggeredAt,
		},
		Version:    1,
		OccurredAt: input.TriggeredAt,
	}
}

func validateEnqueue(input EnqueueInput) error {
	if input.TenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid automation event type")
	}
	if input.ShipmentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipment id required")
	}
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return nil
}
