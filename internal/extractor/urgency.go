package extractor

import (
	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/types"
)

// UrgencyThresholds are the lower bounds of each level above low.
type UrgencyThresholds struct {
	Medium   float64 `yaml:"medium"`
	High     float64 `yaml:"high"`
	Critical float64 `yaml:"critical"`
}

// UrgencyConfig weights the three urgency heuristics. Vocabulary hits
// count at their dictionary weight; punctuation is weighted lower and
// capped; the action-verb share adds up to ActionVerbWeight.
type UrgencyConfig struct {
	Thresholds        UrgencyThresholds `yaml:"thresholds"`
	ExclamationWeight float64           `yaml:"exclamation_weight"`
	QuestionWeight    float64           `yaml:"question_weight"`
	RepeatWeight      float64           `yaml:"repeat_weight"`
	PunctuationCap    float64           `yaml:"punctuation_cap"`
	ActionVerbWeight  float64           `yaml:"action_verb_weight"`
}

func DefaultUrgencyConfig() UrgencyConfig {
	return UrgencyConfig{
		Thresholds:        UrgencyThresholds{Medium: 0.25, High: 0.5, Critical: 0.75},
		ExclamationWeight: 0.10,
		QuestionWeight:    0.05,
		RepeatWeight:      0.10,
		PunctuationCap:    0.30,
		ActionVerbWeight:  0.15,
	}
}

// Level maps a score onto the ordered levels.
func (c UrgencyConfig) Level(score float64) types.UrgencyLevel {
	switch {
	case score < c.Thresholds.Medium:
		return types.UrgencyLow
	case score < c.Thresholds.High:
		return types.UrgencyMedium
	case score < c.Thresholds.Critical:
		return types.UrgencyHigh
	default:
		return types.UrgencyCritical
	}
}

type Urgency struct {
	Config UrgencyConfig
}

func NewUrgency(cfg UrgencyConfig) Urgency {
	return Urgency{Config: cfg}
}

func (u Urgency) Extract(tokens []types.TokenDetail, text string, table dictionary.UrgencyTable) types.UrgencySignal {
	out := types.UrgencySignal{Level: types.UrgencyLow, DetectedWords: []types.DetectedWord{}}
	if len(tokens) == 0 {
		return out
	}
	hits := scan(text, tokens, table.Entries)
	out.DetectedWords = hits

	score := sumWeights(hits) + u.punctuation(text) + u.verbs(tokens)
	out.Score = clamp(score)
	out.Level = u.Config.Level(out.Score)
	return out
}

func (u Urgency) punctuation(text string) float64 {
	var score float64
	run := 0
	closeRun := func() {
		if run >= 2 {
			score += u.Config.RepeatWeight
		}
		run = 0
	}
	for _, r := range text {
		switch r {
		case '!', '！':
			score += u.Config.ExclamationWeight
			run++
		case '?', '？':
			score += u.Config.QuestionWeight
			run++
		default:
			closeRun()
		}
	}
	closeRun()
	if score > u.Config.PunctuationCap {
		return u.Config.PunctuationCap
	}
	return score
}

// verbs scores the share of action verbs among classified verbs. Tokens
// without a verb type (fallback, or verb analysis off) are ignored.
func (u Urgency) verbs(tokens []types.TokenDetail) float64 {
	var total, action int
	for _, tk := range tokens {
		switch tk.VerbType {
		case types.VerbAction:
			action++
			total++
		case types.VerbState:
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return u.Config.ActionVerbWeight * float64(action) / float64(total)
}
