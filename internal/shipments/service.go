package shipments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mirsal-ops/mirsal-backend/internal/automation"
	"github.com/mirsal-ops/mirsal-backend/internal/carriers"
	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	dbpkg "github.com/mirsal-ops/mirsal-backend/pkg/db"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
	"github.com/mirsal-ops/mirsal-backend/pkg/metrics"
	"github.com/mirsal-ops/mirsal-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type automationEnqueuer interface {
	EnqueueTx(ctx context.Context, tx *gorm.DB, input automation.EnqueueInput) error
	EnqueueDelayTx(ctx context.Context, tx *gorm.DB, input automation.EnqueueInput) (bool, error)
}

type statusCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ShipmentStatusKey(shipmentID string) string
}

// Service owns the tracking-event ledger and everything derived from it at
// ingestion time: shipment state, order-status projection and automation
// triggers.
type Service interface {
	RecordEvent(ctx context.Context, input RecordEventInput) (*RecordEventResult, error)
	BulkRecordEvents(ctx context.Context, tenantID uuid.UUID, inputs []RecordEventInput) (*BulkRecordResult, error)
	GetShipmentByOrderReference(ctx context.Context, tenantID uuid.UUID, reference string) (*ShipmentDetail, error)
	ListAtRisk(ctx context.Context, tenantID uuid.UUID) ([]AtRiskShipment, error)
	CheckDelays(ctx context.Context, tenantID uuid.UUID) (*DelayCheckResult, error)
}

// Params bundles the service dependencies. Cache, Metrics and Logger are
// optional; everything else is required.
type Params struct {
	Repo       Repository
	Tx         txRunner
	Automation automationEnqueuer
	Cache      statusCache
	Metrics    *metrics.TrackingMetrics
	Logger     *logger.Logger
	Tracking   config.TrackingConfig
	Now        func() time.Time
}

type service struct {
	repo       Repository
	tx         txRunner
	automation automationEnqueuer
	cache      statusCache
	metrics    *metrics.TrackingMetrics
	logg       *logger.Logger
	cfg        config.TrackingConfig
	now        func() time.Time
}

// NewService builds the shipments tracking service.
func NewService(p Params) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Automation == nil {
		return nil, fmt.Errorf("automation enqueuer required")
	}
	if p.Tracking.AppendRetries <= 0 {
		p.Tracking.AppendRetries = 3
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		repo:       p.Repo,
		tx:         p.Tx,
		automation: p.Automation,
		cache:      p.Cache,
		metrics:    p.Metrics,
		logg:       p.Logger,
		cfg:        p.Tracking,
		now:        p.Now,
	}, nil
}

// RecordEvent appends one tracking observation to the order's ledger,
// creating the shipment on first contact. The read-append cycle runs under
// an optimistic version check and retries on conflict.
func (s *service) RecordEvent(ctx context.Context, input RecordEventInput) (*RecordEventResult, error) {
	if err := validateRecordInput(&input); err != nil {
		return nil, err
	}

	status := carriers.Normalize(input.Carrier, input.RawStatus)

	var result *RecordEventResult
	var err error
	for attempt := 0; attempt < s.cfg.AppendRetries; attempt++ {
		result, err = s.recordEventOnce(ctx, input, status)
		if !errors.Is(err, ErrVersionConflict) {
			break
		}
		s.metrics.IncAppendConflict()
	}
	if errors.Is(err, ErrVersionConflict) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "concurrent appends exhausted retries")
	}
	if err != nil {
		return nil, err
	}

	s.metrics.IncEventRecorded(input.Carrier, result.Status.String(), input.Source.String())
	s.cacheStatus(ctx, result.ShipmentID, result.Status)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"shipment_id": result.ShipmentID.String(),
			"carrier":     input.Carrier,
			"raw_status":  input.RawStatus,
			"status":      result.Status.String(),
			"seq":         result.Seq,
		})
		s.logg.Info(logCtx, "tracking event recorded")
	}
	return result, nil
}

func (s *service) recordEventOnce(ctx context.Context, input RecordEventInput, status enums.ShipmentStatus) (*RecordEventResult, error) {
	now := s.now().UTC()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	var result *RecordEventResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByReference(ctx, input.TenantID, input.OrderReference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no order found for reference").
					WithDetails(map[string]string{"reference": input.OrderReference})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up order")
		}

		shipment, created, err := s.findOrCreateShipment(ctx, repo, order, input)
		if err != nil {
			return err
		}

		seq := shipment.EventCount + 1
		event := &models.TrackingEvent{
			ID:          uuid.New(),
			ShipmentID:  shipment.ID,
			TenantID:    input.TenantID,
			Carrier:     input.Carrier,
			RawStatus:   input.RawStatus,
			Status:      status,
			Location:    optional(input.Location),
			Description: optional(input.Description),
			Source:      input.Source,
			RawPayload:  input.RawPayload,
			Seq:         seq,
			OccurredAt:  occurredAt,
			RecordedAt:  now,
		}

		updates := map[string]any{
			"current_status": status,
			"last_event_at":  occurredAt,
			"event_count":    seq,
			"updated_at":     now,
		}
		if (status == enums.ShipmentStatusPickedUp || status == enums.ShipmentStatusInTransit) && shipment.ShippedAt == nil {
			updates["shipped_at"] = occurredAt
		}
		if status == enums.ShipmentStatusDelivered && shipment.DeliveredAt == nil {
			updates["delivered_at"] = occurredAt
		}
		if shipment.TrackingNumber == nil && input.TrackingNumber != "" {
			updates["tracking_number"] = input.TrackingNumber
		}

		if err := repo.AppendEvent(ctx, event, updates, shipment.Version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending tracking event")
		}

		orderStatus := enums.OrderStatusForShipment(status)
		if err := repo.UpdateOrderStatus(ctx, order.ID, orderStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "projecting order status")
		}

		s.triggerForStatus(ctx, tx, input, order, shipment, status, now)

		result = &RecordEventResult{
			ShipmentID:      shipment.ID,
			OrderID:         order.ID,
			Seq:             seq,
			RawStatus:       input.RawStatus,
			Status:          status,
			OrderStatus:     orderStatus,
			ShipmentCreated: created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) findOrCreateShipment(ctx context.Context, repo Repository, order *models.Order, input RecordEventInput) (*models.Shipment, bool, error) {
	shipment, err := repo.FindShipmentByOrderID(ctx, input.TenantID, order.ID)
	if err == nil {
		return shipment, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up shipment")
	}

	fresh := &models.Shipment{
		ID:            uuid.New(),
		TenantID:      input.TenantID,
		OrderID:       order.ID,
		Carrier:       input.Carrier,
		CurrentStatus: enums.ShipmentStatusCreated,
	}
	if input.TrackingNumber != "" {
		fresh.TrackingNumber = &input.TrackingNumber
	}

	created, err := repo.CreateShipment(ctx, fresh)
	if err != nil {
		// Two first events racing: the loser re-reads the winner's row.
		if dbpkg.IsUniqueViolation(err, "ux_shipments_order") {
			existing, findErr := repo.FindShipmentByOrderID(ctx, input.TenantID, order.ID)
			if findErr != nil {
				return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "re-reading shipment after create race")
			}
			return existing, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating shipment")
	}
	return created, true, nil
}

// triggerForStatus enqueues the ingestion-driven automation signals. Delay
// triggers come from the scheduled sweep instead. Triggering is best-effort:
// an enqueue failure is logged and never fails the recording request.
func (s *service) triggerForStatus(ctx context.Context, tx *gorm.DB, input RecordEventInput, order *models.Order, shipment *models.Shipment, status enums.ShipmentStatus, now time.Time) {
	var eventType enums.AutomationEventType
	switch status {
	case enums.ShipmentStatusFailed:
		eventType = enums.AutomationEventFailedDelivery
	case enums.ShipmentStatusReturned:
		eventType = enums.AutomationEventReturnedShipment
	default:
		return
	}

	// Savepoint keeps the trigger atomic: a failed enqueue rolls back its
	// own writes (automation row + outbox mirror) without poisoning the
	// tracking-event commit.
	err := tx.Transaction(func(inner *gorm.DB) error {
		return s.automation.EnqueueTx(ctx, inner, automation.EnqueueInput{
			TenantID:   input.TenantID,
			Type:       eventType,
			ShipmentID: shipment.ID,
			OrderID:    order.ID,
			Payload: types.JSONMap{
				"order_reference": order.Reference,
				"carrier":         input.Carrier,
				"raw_status":      input.RawStatus,
				"status":          status.String(),
			},
			TriggeredAt: now,
		})
	})
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithShipmentID(ctx, shipment.ID.String()), "automation trigger enqueue failed")
	}
}

// BulkRecordEvents ingests a batch with per-item isolation: one malformed or
// unmatched item never blocks the rest.
func (s *service) BulkRecordEvents(ctx context.Context, tenantID uuid.UUID, inputs []RecordEventInput) (*BulkRecordResult, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bulk batch is empty")
	}
	if s.cfg.BulkMaxItems > 0 && len(inputs) > s.cfg.BulkMaxItems {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bulk batch exceeds maximum size").
			WithDetails(map[string]int{"max_items": s.cfg.BulkMaxItems, "submitted": len(inputs)})
	}

	result := &BulkRecordResult{Results: make([]BulkItemResult, 0, len(inputs))}
	for i, input := range inputs {
		input.TenantID = tenantID
		item := BulkItemResult{Index: i, OrderReference: input.OrderReference}
		recorded, err := s.RecordEvent(ctx, input)
		if err != nil {
			item.Code = string(pkgerrors.CodeInternal)
			item.Message = "recording failed"
			if typed := pkgerrors.As(err); typed != nil {
				item.Code = string(typed.Code())
				item.Message = typed.Message()
			}
			result.Failed++
			result.Results = append(result.Results, item)
			continue
		}
		item.Success = true
		item.Status = recorded.Status
		result.Recorded++
		result.Results = append(result.Results, item)
	}
	return result, nil
}

// GetShipmentByOrderReference returns the order's full tracking view: the
// ledger in insertion order plus a point-in-time risk assessment.
func (s *service) GetShipmentByOrderReference(ctx context.Context, tenantID uuid.UUID, reference string) (*ShipmentDetail, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference required")
	}

	order, err := s.repo.FindOrderByReference(ctx, tenantID, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order found for reference")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up order")
	}

	shipment, err := s.repo.FindShipmentByOrderID(ctx, tenantID, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order has no shipment yet")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up shipment")
	}

	events, err := s.repo.ListEvents(ctx, shipment.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tracking events")
	}

	views := make([]EventView, 0, len(events))
	for _, event := range events {
		views = append(views, EventView{
			ID:          event.ID,
			Seq:         event.Seq,
			RawStatus:   event.RawStatus,
			Status:      event.Status,
			Location:    event.Location,
			Description: event.Description,
			Source:      event.Source,
			OccurredAt:  event.OccurredAt,
			RecordedAt:  event.RecordedAt,
		})
	}

	risk := AssessRisk(*shipment, s.now().UTC(), s.cfg.DelayWarningAfter, s.cfg.CriticalDelayAfter)

	return &ShipmentDetail{
		ShipmentID:     shipment.ID,
		OrderID:        order.ID,
		OrderReference: order.Reference,
		OrderStatus:    order.Status,
		Carrier:        shipment.Carrier,
		TrackingNumber: shipment.TrackingNumber,
		CurrentStatus:  shipment.CurrentStatus,
		ShippedAt:      shipment.ShippedAt,
		DeliveredAt:    shipment.DeliveredAt,
		LastEventAt:    shipment.LastEventAt,
		EventCount:     shipment.EventCount,
		Events:         views,
		Risk: RiskView{
			AtRisk:              risk.AtRisk,
			Reason:              risk.Reason,
			HoursSinceLastEvent: risk.HoursSinceLastEvent,
		},
	}, nil
}

// ListAtRisk returns every non-terminal shipment currently past a risk
// threshold or in FAILED.
func (s *service) ListAtRisk(ctx context.Context, tenantID uuid.UUID) ([]AtRiskShipment, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}

	shipmentsList, err := s.repo.ListNonTerminal(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shipments")
	}

	now := s.now().UTC()
	flagged := make([]models.Shipment, 0, len(shipmentsList))
	assessments := make([]RiskAssessment, 0, len(shipmentsList))
	orderIDs := make([]uuid.UUID, 0, len(shipmentsList))
	for _, shipment := range shipmentsList {
		risk := AssessRisk(shipment, now, s.cfg.DelayWarningAfter, s.cfg.CriticalDelayAfter)
		if !risk.AtRisk {
			continue
		}
		flagged = append(flagged, shipment)
		assessments = append(assessments, risk)
		orderIDs = append(orderIDs, shipment.OrderID)
	}

	refs, err := s.repo.FindOrderReferences(ctx, orderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving order references")
	}

	rows := make([]AtRiskShipment, 0, len(flagged))
	for i, shipment := range flagged {
		rows = append(rows, AtRiskShipment{
			ShipmentID:          shipment.ID,
			OrderID:             shipment.OrderID,
			OrderReference:      refs[shipment.OrderID],
			Carrier:             shipment.Carrier,
			CurrentStatus:       shipment.CurrentStatus,
			LastEventAt:         shipment.LastEventAt,
			HoursSinceLastEvent: assessments[i].HoursSinceLastEvent,
			Reason:              assessments[i].Reason,
		})
	}
	return rows, nil
}

// CheckDelays sweeps the tenant's non-terminal shipments and durably
// enqueues a delayed_order trigger for each one past a delay threshold.
// Shipments with an open delay trigger are counted but not re-enqueued.
func (s *service) CheckDelays(ctx context.Context, tenantID uuid.UUID) (*DelayCheckResult, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}

	shipmentsList, err := s.repo.ListNonTerminal(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shipments")
	}

	now := s.now().UTC()
	result := &DelayCheckResult{Checked: len(shipmentsList)}
	for _, shipment := range shipmentsList {
		risk := AssessRisk(shipment, now, s.cfg.DelayWarningAfter, s.cfg.CriticalDelayAfter)
		if risk.Reason != enums.RiskReasonDelayWarning && risk.Reason != enums.RiskReasonCriticalDelay {
			continue
		}
		result.Delayed++

		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			enqueued, err := s.automation.EnqueueDelayTx(ctx, tx, automation.EnqueueInput{
				TenantID:   tenantID,
				Type:       enums.AutomationEventDelayedOrder,
				ShipmentID: shipment.ID,
				OrderID:    shipment.OrderID,
				Payload: types.JSONMap{
					"carrier":                shipment.Carrier,
					"current_status":         shipment.CurrentStatus.String(),
					"reason":                 risk.Reason.String(),
					"hours_since_last_event": risk.HoursSinceLastEvent,
				},
				TriggeredAt: now,
			})
			if err != nil {
				return err
			}
			if enqueued {
				result.Triggered++
			}
			return nil
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "enqueueing delay trigger")
		}
	}
	return result, nil
}

func (s *service) cacheStatus(ctx context.Context, shipmentID uuid.UUID, status enums.ShipmentStatus) {
	if s.cache == nil {
		return
	}
	key := s.cache.ShipmentStatusKey(shipmentID.String())
	if err := s.cache.Set(ctx, key, status.String(), s.cfg.StatusCacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithShipmentID(ctx, shipmentID.String()), "caching shipment status failed")
	}
}

func validateRecordInput(input *RecordEventInput) error {
	if input.TenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	input.OrderReference = strings.TrimSpace(input.OrderReference)
	if input.OrderReference == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order reference required")
	}
	input.Carrier = strings.ToLower(strings.TrimSpace(input.Carrier))
	if input.Carrier == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "carrier required")
	}
	if strings.TrimSpace(input.RawStatus) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "raw status required")
	}
	if input.Source == "" {
		input.Source = enums.EventSourceWebhook
	}
	if !input.Source.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid event source")
	}
	return nil
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
