package performance

import (
	"fmt"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// Benchmark deltas that make a carrier's deviation from the fleet worth
// reporting.
const (
	deliveryRateDelta = 10.0
	returnRateDelta   = 5.0
	fasterDeltaHours  = 12.0
	slowerDeltaHours  = 24.0
)

// Insight is one qualitative finding comparing a carrier's window metrics
// against the fleet benchmark.
type Insight struct {
	Carrier   string              `json:"carrier"`
	Kind      enums.InsightKind   `json:"kind"`
	Metric    enums.InsightMetric `json:"metric"`
	Observed  float64             `json:"observed"`
	Benchmark float64             `json:"benchmark"`
	Message   string              `json:"message"`
}

// GenerateInsights benchmarks every carrier against fleet-wide averages of
// delivery success rate, return rate and average delivery time. The fleet
// delivery-time benchmark averages only carriers that have a value.
func GenerateInsights(allMetrics []CarrierMetrics) []Insight {
	if len(allMetrics) == 0 {
		return []Insight{}
	}

	var rateSum, returnSum float64
	var deliveryTimes []float64
	for _, metrics := range allMetrics {
		rateSum += metrics.DeliverySuccessRate
		returnSum += metrics.ReturnRate
		if metrics.AvgDeliveryTimeHours != nil {
			deliveryTimes = append(deliveryTimes, *metrics.AvgDeliveryTimeHours)
		}
	}
	fleetRate := rateSum / float64(len(allMetrics))
	fleetReturn := returnSum / float64(len(allMetrics))
	fleetDeliveryTime := mean(deliveryTimes)

	insights := []Insight{}
	for _, metrics := range allMetrics {
		if metrics.DeliverySuccessRate > fleetRate+deliveryRateDelta {
			insights = append(insights, Insight{
				Carrier:   metrics.Carrier,
				Kind:      enums.InsightKindStrength,
				Metric:    enums.InsightMetricDeliveryRate,
				Observed:  metrics.DeliverySuccessRate,
				Benchmark: fleetRate,
				Message:   fmt.Sprintf("%s delivers %.1f%% of shipments, well above the fleet average of %.1f%%", metrics.Carrier, metrics.DeliverySuccessRate, fleetRate),
			})
		} else if metrics.DeliverySuccessRate < fleetRate-deliveryRateDelta {
			insights = append(insights, Insight{
				Carrier:   metrics.Carrier,
				Kind:      enums.InsightKindWeakness,
				Metric:    enums.InsightMetricDeliveryRate,
				Observed:  metrics.DeliverySuccessRate,
				Benchmark: fleetRate,
				Message:   fmt.Sprintf("%s delivers only %.1f%% of shipments against a fleet average of %.1f%%", metrics.Carrier, metrics.DeliverySuccessRate, fleetRate),
			})
		}

		if metrics.ReturnRate > fleetReturn+returnRateDelta {
			insights = append(insights, Insight{
				Carrier:   metrics.Carrier,
				Kind:      enums.InsightKindWarning,
				Metric:    enums.InsightMetricReturnRate,
				Observed:  metrics.ReturnRate,
				Benchmark: fleetReturn,
				Message:   fmt.Sprintf("%s return rate of %.1f%% exceeds the fleet average of %.1f%%", metrics.Carrier, metrics.ReturnRate, fleetReturn),
			})
		}

		if fleetDeliveryTime != nil && metrics.AvgDeliveryTimeHours != nil {
			observed := *metrics.AvgDeliveryTimeHours
			benchmark := *fleetDeliveryTime
			if observed < benchmark-fasterDeltaHours {
				insights = append(insights, Insight{
					Carrier:   metrics.Carrier,
					Kind:      enums.InsightKindStrength,
					Metric:    enums.InsightMetricDeliveryTime,
					Observed:  observed,
					Benchmark: benchmark,
					Message:   fmt.Sprintf("%s delivers in %.1fh on average, faster than the fleet's %.1fh", metrics.Carrier, observed, benchmark),
				})
			} else if observed > benchmark+slowerDeltaHours {
				insights = append(insights, Insight{
					Carrier:   metrics.Carrier,
					Kind:      enums.InsightKindWeakness,
					Metric:    enums.InsightMetricDeliveryTime,
					Observed:  observed,
					Benchmark: benchmark,
					Message:   fmt.Sprintf("%s delivers in %.1fh on average, slower than the fleet's %.1fh", metrics.Carrier, observed, benchmark),
				})
			}
		}
	}
	return insights
}
