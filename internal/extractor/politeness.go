package extractor

import (
	"strings"

	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/types"
)

type PolitenessThresholds struct {
	Casual  float64 `yaml:"casual"`
	Neutral float64 `yaml:"neutral"`
	Polite  float64 `yaml:"polite"`
	Formal  float64 `yaml:"formal"`
}

// PolitenessConfig: Default is the score used when no ending pattern and
// no marker matches.
type PolitenessConfig struct {
	Default    float64              `yaml:"default"`
	Thresholds PolitenessThresholds `yaml:"thresholds"`
}

func DefaultPolitenessConfig() PolitenessConfig {
	return PolitenessConfig{
		Default:    0.5,
		Thresholds: PolitenessThresholds{Casual: 0.2, Neutral: 0.4, Polite: 0.6, Formal: 0.8},
	}
}

func (c PolitenessConfig) Level(score float64) types.PolitenessLevel {
	switch {
	case score < c.Thresholds.Casual:
		return types.PolitenessBlunt
	case score < c.Thresholds.Neutral:
		return types.PolitenessCasual
	case score < c.Thresholds.Polite:
		return types.PolitenessNeutral
	case score < c.Thresholds.Formal:
		return types.PolitenessPolite
	default:
		return types.PolitenessFormal
	}
}

type Politeness struct {
	Config PolitenessConfig
}

func NewPoliteness(cfg PolitenessConfig) Politeness {
	return Politeness{Config: cfg}
}

// Extract matches the last sentence against the ending patterns; the
// longest matching suffix wins and its weight is the score. Without an
// ending match, honorific and rude markers shift the default score.
func (p Politeness) Extract(tokens []types.TokenDetail, text string, endings dictionary.EndingsTable, markers dictionary.PolitenessTable) types.PolitenessSignal {
	def := clamp(p.Config.Default)
	out := types.PolitenessSignal{
		Level:   p.Config.Level(def),
		Score:   def,
		Markers: []types.DetectedWord{},
	}
	if len(tokens) == 0 {
		return out
	}
	out.Markers = scan(text, tokens, markers.Markers)

	span, _ := finalSpan(tokens)
	var best *dictionary.EndingRule
	for i := range endings.Patterns {
		rule := &endings.Patterns[i]
		if rule.Pattern == "" || !strings.HasSuffix(span, rule.Pattern) {
			continue
		}
		if best == nil || len(rule.Pattern) > len(best.Pattern) {
			best = rule
		}
	}

	if best != nil {
		out.EndingPattern = &types.EndingPattern{Pattern: best.Pattern, Form: best.Form}
		out.Score = clamp(best.Weight)
	} else {
		out.Score = clamp(p.Config.Default + sumWeights(out.Markers))
	}
	out.Level = p.Config.Level(out.Score)
	return out
}
