package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

func findInsight(insights []Insight, carrier string, metric enums.InsightMetric) *Insight {
	for i := range insights {
		if insights[i].Carrier == carrier && insights[i].Metric == metric {
			return &insights[i]
		}
	}
	return nil
}

func TestGenerateInsightsDeliveryRateDeviation(t *testing.T) {
	// Fleet average delivery rate = 70%; aramex is 25 points above,
	// generic 30 below, smsa within the ±10 band.
	metrics := []CarrierMetrics{
		{Carrier: "aramex", DeliverySuccessRate: 95},
		{Carrier: "smsa", DeliverySuccessRate: 75},
		{Carrier: "generic", DeliverySuccessRate: 40},
	}

	insights := GenerateInsights(metrics)

	strength := findInsight(insights, "aramex", enums.InsightMetricDeliveryRate)
	require.NotNil(t, strength)
	assert.Equal(t, enums.InsightKindStrength, strength.Kind)
	assert.InDelta(t, 95.0, strength.Observed, 0.001)
	assert.InDelta(t, 70.0, strength.Benchmark, 0.001)
	assert.NotEmpty(t, strength.Message)

	weakness := findInsight(insights, "generic", enums.InsightMetricDeliveryRate)
	require.NotNil(t, weakness)
	assert.Equal(t, enums.InsightKindWeakness, weakness.Kind)

	assert.Nil(t, findInsight(insights, "smsa", enums.InsightMetricDeliveryRate))
}

func TestGenerateInsightsReturnRateWarning(t *testing.T) {
	// Fleet average return rate = 6%; aramex is 9 points above it.
	metrics := []CarrierMetrics{
		{Carrier: "aramex", ReturnRate: 15},
		{Carrier: "smsa", ReturnRate: 2},
		{Carrier: "generic", ReturnRate: 1},
	}

	insights := GenerateInsights(metrics)

	warning := findInsight(insights, "aramex", enums.InsightMetricReturnRate)
	require.NotNil(t, warning)
	assert.Equal(t, enums.InsightKindWarning, warning.Kind)

	assert.Nil(t, findInsight(insights, "smsa", enums.InsightMetricReturnRate))
}

func TestGenerateInsightsDeliveryTimeDeviation(t *testing.T) {
	// Fleet average delivery time = 60h; smsa is 20h faster (>12h) and
	// generic 30h slower (>24h).
	metrics := []CarrierMetrics{
		{Carrier: "aramex", AvgDeliveryTimeHours: hours(50)},
		{Carrier: "smsa", AvgDeliveryTimeHours: hours(40)},
		{Carrier: "generic", AvgDeliveryTimeHours: hours(90)},
	}

	insights := GenerateInsights(metrics)

	fast := findInsight(insights, "smsa", enums.InsightMetricDeliveryTime)
	require.NotNil(t, fast)
	assert.Equal(t, enums.InsightKindStrength, fast.Kind)

	slow := findInsight(insights, "generic", enums.InsightMetricDeliveryTime)
	require.NotNil(t, slow)
	assert.Equal(t, enums.InsightKindWeakness, slow.Kind)

	// aramex is 10h off the benchmark: inside both thresholds.
	assert.Nil(t, findInsight(insights, "aramex", enums.InsightMetricDeliveryTime))
}

func TestGenerateInsightsSkipsDeliveryTimeWithoutData(t *testing.T) {
	metrics := []CarrierMetrics{
		{Carrier: "aramex", DeliverySuccessRate: 90},
		{Carrier: "smsa", DeliverySuccessRate: 90},
	}

	insights := GenerateInsights(metrics)
	assert.Nil(t, findInsight(insights, "aramex", enums.InsightMetricDeliveryTime))
	assert.Nil(t, findInsight(insights, "smsa", enums.InsightMetricDeliveryTime))
}

func TestGenerateInsightsEmptyInput(t *testing.T) {
	assert.Empty(t, GenerateInsights(nil))
}
