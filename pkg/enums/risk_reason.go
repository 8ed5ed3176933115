package enums

// RiskReason explains why a shipment was flagged at-risk.
type RiskReason string

const (
	RiskReasonNone           RiskReason = ""
	RiskReasonDeliveryFailed RiskReason = "delivery_failed"
	RiskReasonDelayWarning   RiskReason = "delay_warning"
	RiskReasonCriticalDelay  RiskReason = "critical_delay"
)

// String implements fmt.Stringer.
func (r RiskReason) String() string {
	return string(r)
}
