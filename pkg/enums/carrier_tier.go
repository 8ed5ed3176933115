package enums

// CarrierTier buckets a carrier's weighted overall score into a qualitative
// grade used by the routing recommender and the dashboard.
type CarrierTier string

const (
	CarrierTierExcellent CarrierTier = "excellent"
	CarrierTierGood      CarrierTier = "good"
	CarrierTierAverage   CarrierTier = "average"
	CarrierTierPoor      CarrierTier = "poor"
)

// String implements fmt.Stringer.
func (c CarrierTier) String() string {
	return string(c)
}

// TierForScore maps an overall 0-100 score to its tier.
func TierForScore(score float64) CarrierTier {
	switch {
	case score >= 85:
		return CarrierTierExcellent
	case score >= 70:
		return CarrierTierGood
	case score >= 50:
		return CarrierTierAverage
	default:
		return CarrierTierPoor
	}
}
