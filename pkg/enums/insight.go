package enums

// InsightKind classifies a qualitative finding produced by comparing one
// carrier against the fleet benchmark.
type InsightKind string

const (
	InsightKindStrength InsightKind = "strength"
	InsightKindWeakness InsightKind = "weakness"
	InsightKindWarning  InsightKind = "warning"
)

// String implements fmt.Stringer.
func (i InsightKind) String() string {
	return string(i)
}

// InsightMetric names the metric an insight refers to.
type InsightMetric string

const (
	InsightMetricDeliveryRate InsightMetric = "delivery_success_rate"
	InsightMetricReturnRate   InsightMetric = "return_rate"
	InsightMetricDeliveryTime InsightMetric = "avg_delivery_time"
)

// String implements fmt.Stringer.
func (i InsightMetric) String() string {
	return string(i)
}
