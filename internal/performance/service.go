package performance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
)

// DashboardSummary is the tenant-wide overview for the operations dashboard.
type DashboardSummary struct {
	TotalShipments  int                          `json:"total_shipments"`
	StatusBreakdown map[enums.ShipmentStatus]int `json:"status_breakdown"`
	AtRiskCount     int                          `json:"at_risk_count"`
	CarrierCount    int                          `json:"carrier_count"`
	TopCarrier      *CarrierScore                `json:"top_carrier,omitempty"`
}

// Service exposes the read-only carrier analytics. Everything is recomputed
// from the ledgers on each call; there is no hidden state to go stale.
type Service interface {
	GetCarrierMetrics(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]CarrierMetrics, error)
	GetCarrierScores(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]CarrierScore, error)
	GetInsights(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]Insight, error)
	GetRoutingRecommendations(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]Recommendation, error)
	GetDashboardSummary(ctx context.Context, tenantID uuid.UUID, window DateRange) (*DashboardSummary, error)
}

type service struct {
	repo     Repository
	scoring  config.ScoringConfig
	tracking config.TrackingConfig
	now      func() time.Time
}

// NewService builds the carrier analytics service.
func NewService(repo Repository, scoring config.ScoringConfig, tracking config.TrackingConfig, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("performance repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, scoring: scoring, tracking: tracking, now: now}, nil
}

func (s *service) GetCarrierMetrics(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]CarrierMetrics, error) {
	_, metrics, err := s.computeMetrics(ctx, tenantID, window)
	return metrics, err
}

func (s *service) GetCarrierScores(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]CarrierScore, error) {
	_, metrics, err := s.computeMetrics(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}
	return s.scoreAll(metrics), nil
}

func (s *service) GetInsights(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]Insight, error) {
	_, metrics, err := s.computeMetrics(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}
	return GenerateInsights(metrics), nil
}

func (s *service) GetRoutingRecommendations(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]Recommendation, error) {
	_, metrics, err := s.computeMetrics(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}
	return RecommendRouting(s.scoreAll(metrics)), nil
}

func (s *service) GetDashboardSummary(ctx context.Context, tenantID uuid.UUID, window DateRange) (*DashboardSummary, error) {
	rows, metrics, err := s.computeMetrics(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalShipments:  len(rows),
		StatusBreakdown: map[enums.ShipmentStatus]int{},
		CarrierCount:    len(metrics),
	}

	now := s.now().UTC()
	for _, shipment := range rows {
		summary.StatusBreakdown[shipment.CurrentStatus]++
		risk := shipments.AssessRisk(shipment, now, s.tracking.DelayWarningAfter, s.tracking.CriticalDelayAfter)
		if risk.AtRisk {
			summary.AtRiskCount++
		}
	}

	scores := s.scoreAll(metrics)
	if len(scores) > 0 {
		sort.SliceStable(scores, func(i, j int) bool {
			return scores[i].OverallScore > scores[j].OverallScore
		})
		top := scores[0]
		summary.TopCarrier = &top
	}
	return summary, nil
}

// computeMetrics loads the window's ledgers once and reduces them to
// per-carrier metrics, sorted by carrier for stable output.
func (s *service) computeMetrics(ctx context.Context, tenantID uuid.UUID, window DateRange) ([]models.Shipment, []CarrierMetrics, error) {
	if tenantID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if window.From != nil && window.To != nil && window.To.Before(*window.From) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}

	rows, err := s.repo.ListLedgers(ctx, tenantID, window)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shipment ledgers")
	}

	byCarrier := map[string][]Timeline{}
	for _, shipment := range rows {
		byCarrier[shipment.Carrier] = append(byCarrier[shipment.Carrier], ComputeTimeline(shipment, shipment.Events))
	}

	carrierNames := make([]string, 0, len(byCarrier))
	for carrier := range byCarrier {
		carrierNames = append(carrierNames, carrier)
	}
	sort.Strings(carrierNames)

	metrics := make([]CarrierMetrics, 0, len(carrierNames))
	for _, carrier := range carrierNames {
		metrics = append(metrics, Aggregate(carrier, byCarrier[carrier]))
	}
	return rows, metrics, nil
}

func (s *service) scoreAll(metrics []CarrierMetrics) []CarrierScore {
	scores := make([]CarrierScore, 0, len(metrics))
	for _, m := range metrics {
		scores = append(scores, Score(m, s.scoring))
	}
	return scores
}
