package performance

import (
	"math"

	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// CarrierScore holds the normalized 0-100 dimension scores and the weighted
// overall grade.
type CarrierScore struct {
	Carrier          string            `json:"carrier"`
	SpeedScore       float64           `json:"speed_score"`
	ReliabilityScore float64           `json:"reliability_score"`
	ReturnRateScore  float64           `json:"return_rate_score"`
	OverallScore     int               `json:"overall_score"`
	Tier             enums.CarrierTier `json:"tier"`
}

// Score converts one carrier's metrics into dimension scores and a tier.
//
// Speed maps the average delivery time onto [baseline, baseline+window]
// hours inverted to [100, 0]; a carrier with no delivery samples scores 100
// (benefit of the doubt, no data to hold against it). Reliability is the
// delivery success rate as-is. Return-rate score penalizes five points per
// percentage point of returns.
func Score(metrics CarrierMetrics, cfg config.ScoringConfig) CarrierScore {
	speed := 100.0
	if metrics.AvgDeliveryTimeHours != nil {
		speed = clamp(100 - ((*metrics.AvgDeliveryTimeHours - cfg.SpeedBaselineHours) / cfg.SpeedWindowHours * 100))
	}
	reliability := clamp(metrics.DeliverySuccessRate)
	returnRate := clamp(100 - metrics.ReturnRate*5)

	overall := speed*cfg.SpeedWeight + reliability*cfg.ReliabilityWeight + returnRate*cfg.ReturnRateWeight
	rounded := int(math.Round(overall))

	return CarrierScore{
		Carrier:          metrics.Carrier,
		SpeedScore:       speed,
		ReliabilityScore: reliability,
		ReturnRateScore:  returnRate,
		OverallScore:     rounded,
		Tier:             enums.TierForScore(float64(rounded)),
	}
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
