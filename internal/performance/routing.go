package performance

import (
	"fmt"
	"sort"
)

// Routing scenarios the recommender ranks carriers for.
const (
	ScenarioGeneral = "general"
	ScenarioCOD     = "cod"
	ScenarioPrepaid = "prepaid"
)

// Recommendation is one ranked carrier suggestion for a scenario.
type Recommendation struct {
	Scenario     string   `json:"scenario"`
	Carrier      string   `json:"carrier"`
	Score        float64  `json:"score"`
	Alternatives []string `json:"alternatives,omitempty"`
	Reason       string   `json:"reason"`
}

// RecommendRouting ranks carriers per scenario: overall score for the
// general case (with the next two as alternates), reliability for
// cash-on-delivery, speed for prepaid. No scored carriers means no
// recommendations.
func RecommendRouting(scores []CarrierScore) []Recommendation {
	if len(scores) == 0 {
		return []Recommendation{}
	}

	byOverall := append([]CarrierScore(nil), scores...)
	sort.SliceStable(byOverall, func(i, j int) bool {
		return byOverall[i].OverallScore > byOverall[j].OverallScore
	})
	alternatives := make([]string, 0, 2)
	for _, alt := range byOverall[1:] {
		if len(alternatives) == 2 {
			break
		}
		alternatives = append(alternatives, alt.Carrier)
	}

	byReliability := append([]CarrierScore(nil), scores...)
	sort.SliceStable(byReliability, func(i, j int) bool {
		return byReliability[i].ReliabilityScore > byReliability[j].ReliabilityScore
	})

	bySpeed := append([]CarrierScore(nil), scores...)
	sort.SliceStable(bySpeed, func(i, j int) bool {
		return bySpeed[i].SpeedScore > bySpeed[j].SpeedScore
	})

	return []Recommendation{
		{
			Scenario:     ScenarioGeneral,
			Carrier:      byOverall[0].Carrier,
			Score:        float64(byOverall[0].OverallScore),
			Alternatives: alternatives,
			Reason:       fmt.Sprintf("highest overall score (%d, %s tier)", byOverall[0].OverallScore, byOverall[0].Tier),
		},
		{
			Scenario: ScenarioCOD,
			Carrier:  byReliability[0].Carrier,
			Score:    byReliability[0].ReliabilityScore,
			Reason:   fmt.Sprintf("most reliable delivery rate (%.1f%%), lowest cash-collection risk", byReliability[0].ReliabilityScore),
		},
		{
			Scenario: ScenarioPrepaid,
			Carrier:  bySpeed[0].Carrier,
			Score:    bySpeed[0].SpeedScore,
			Reason:   fmt.Sprintf("fastest delivery profile (speed score %.1f)", bySpeed[0].SpeedScore),
		},
	}
}
