// Package actionable turns a message's signals into a handling
// recommendation with a human-readable rationale.
package actionable

import (
	"fmt"

	"context-signals-go/internal/types"
)

type rule struct {
	name   string
	action types.RecommendedAction
	match  func(types.SignalSet) bool
}

func emotionIn(s types.SignalSet, cats ...types.EmotionCategory) bool {
	for _, c := range cats {
		if s.Emotion.Category == c {
			return true
		}
	}
	return false
}

// rules are evaluated in order; the first match decides the action.
var rules = []rule{
	{
		name:   "critical urgency",
		action: types.ActionEscalateUrgent,
		match:  func(s types.SignalSet) bool { return s.Urgency.Level == types.UrgencyCritical },
	},
	{
		name:   "high urgency with anger or frustration",
		action: types.ActionEscalateUrgent,
		match: func(s types.SignalSet) bool {
			return s.Urgency.Level == types.UrgencyHigh && emotionIn(s, types.EmotionAnger, types.EmotionFrustration)
		},
	},
	{
		name:   "high urgency",
		action: types.ActionRouteToHuman,
		match:  func(s types.SignalSet) bool { return s.Urgency.Level == types.UrgencyHigh },
	},
	{
		name:   "anger",
		action: types.ActionRouteToHuman,
		match:  func(s types.SignalSet) bool { return s.Emotion.Category == types.EmotionAnger },
	},
	{
		name:   "medium urgency with negative emotion or uncertainty",
		action: types.ActionRouteToHuman,
		match: func(s types.SignalSet) bool {
			return s.Urgency.Level == types.UrgencyMedium &&
				(emotionIn(s, types.EmotionFrustration, types.EmotionAnxiety) || s.Certainty.Level == types.CertaintyUncertain)
		},
	},
	{
		name:   "medium urgency",
		action: types.ActionAutoAcknowledge,
		match:  func(s types.SignalSet) bool { return s.Urgency.Level == types.UrgencyMedium },
	},
	{
		name:   "frustration or anxiety",
		action: types.ActionAutoAcknowledge,
		match: func(s types.SignalSet) bool {
			return emotionIn(s, types.EmotionFrustration, types.EmotionAnxiety)
		},
	},
	{
		name:   "uncertain wording",
		action: types.ActionAutoAcknowledge,
		match:  func(s types.SignalSet) bool { return s.Certainty.Level == types.CertaintyUncertain },
	},
}

// Generate picks the action for a signal set. Politeness never changes the
// action; it is only reported in the rationale.
func Generate(s types.SignalSet) types.Recommendation {
	action := types.ActionNone
	reason := "no signal requires handling"
	for _, r := range rules {
		if r.match(s) {
			action = r.action
			reason = "rule: " + r.name
			break
		}
	}
	return types.Recommendation{
		Action: action,
		Rationale: []string{
			reason,
			fmt.Sprintf("urgency %s (%.2f)", s.Urgency.Level, s.Urgency.Score),
			fmt.Sprintf("emotion %s (%.2f)", s.Emotion.Category, s.Emotion.Intensity),
			fmt.Sprintf("certainty %s (%.2f)", s.Certainty.Level, s.Certainty.Score),
			politenessLine(s.Politeness),
		},
	}
}

func politenessLine(p types.PolitenessSignal) string {
	if p.EndingPattern != nil {
		return fmt.Sprintf("politeness %s (%.2f, ending %q)", p.Level, p.Score, p.EndingPattern.Pattern)
	}
	return fmt.Sprintf("politeness %s (%.2f)", p.Level, p.Score)
}
