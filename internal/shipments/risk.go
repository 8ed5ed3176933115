package shipments

import (
	"time"

	"github.com/mirsal-ops/mirsal-backend/pkg/db/models"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// RiskAssessment is the outcome of one staleness check.
type RiskAssessment struct {
	AtRisk              bool
	Reason              enums.RiskReason
	HoursSinceLastEvent float64
}

// AssessRisk evaluates a shipment's delivery risk at the given instant.
//
// Terminal shipments are never at risk. Shipments in FAILED are always at
// risk regardless of staleness. For everything else staleness is measured
// from the last event (shipment creation when no event has arrived yet),
// with exact cutoffs: criticalAfter wins over warnAfter, and a shipment
// sitting exactly on a threshold counts as past it.
func AssessRisk(shipment models.Shipment, now time.Time, warnAfter, criticalAfter time.Duration) RiskAssessment {
	reference := shipment.CreatedAt
	if shipment.LastEventAt != nil {
		reference = *shipment.LastEventAt
	}
	stale := now.Sub(reference)
	hours := stale.Hours()

	if shipment.CurrentStatus.IsTerminal() {
		return RiskAssessment{HoursSinceLastEvent: hours}
	}
	if shipment.CurrentStatus == enums.ShipmentStatusFailed {
		return RiskAssessment{AtRisk: true, Reason: enums.RiskReasonDeliveryFailed, HoursSinceLastEvent: hours}
	}
	if stale >= criticalAfter {
		return RiskAssessment{AtRisk: true, Reason: enums.RiskReasonCriticalDelay, HoursSinceLastEvent: hours}
	}
	if stale >= warnAfter {
		return RiskAssessment{AtRisk: true, Reason: enums.RiskReasonDelayWarning, HoursSinceLastEvent: hours}
	}
	return RiskAssessment{HoursSinceLastEvent: hours}
}
