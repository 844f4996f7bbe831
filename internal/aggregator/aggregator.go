// Package aggregator folds per-message results into batch statistics.
package aggregator

import (
	"math"

	"context-signals-go/internal/types"
)

// Aggregate counts analyzed items per urgency level, emotion category and
// action. Every enumeration value is present in the maps, so each map's
// counts sum to Analyzed. The mean covers analyzed items only.
func Aggregate(items []types.BatchItem) types.BatchSummary {
	sum := types.BatchSummary{
		Total:     len(items),
		ByUrgency: map[string]int{},
		ByEmotion: map[string]int{},
		ByAction:  map[string]int{},
	}
	for _, l := range types.UrgencyLevels() {
		sum.ByUrgency[string(l)] = 0
	}
	for _, c := range types.EmotionCategories() {
		sum.ByEmotion[string(c)] = 0
	}
	for _, a := range types.RecommendedActions() {
		sum.ByAction[string(a)] = 0
	}

	total := 0.0
	for _, it := range items {
		if it.Output == nil {
			sum.Failed++
			continue
		}
		out := it.Output
		sum.Analyzed++
		sum.ByUrgency[string(out.Signals.Urgency.Level)]++
		sum.ByEmotion[string(out.Signals.Emotion.Category)]++
		sum.ByAction[string(out.Recommendation.Action)]++
		total += out.OverallScore.Value
	}
	if sum.Analyzed > 0 {
		sum.MeanOverallScore = math.Round(total/float64(sum.Analyzed)*1e4) / 1e4
	}
	return sum
}
