package extractor

import (
	"strings"

	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/types"
)

const hedgeCategory = "hedge"

type CertaintyThresholds struct {
	Hedged  float64 `yaml:"hedged"`
	Certain float64 `yaml:"certain"`
}

// CertaintyConfig: score starts at Neutral, moves by each marker's signed
// weight, and gains NoHedgeBonus when the message contains no hedge.
type CertaintyConfig struct {
	Neutral      float64             `yaml:"neutral"`
	NoHedgeBonus float64             `yaml:"no_hedge_bonus"`
	Thresholds   CertaintyThresholds `yaml:"thresholds"`
}

func DefaultCertaintyConfig() CertaintyConfig {
	return CertaintyConfig{
		Neutral:      0.5,
		NoHedgeBonus: 0.10,
		Thresholds:   CertaintyThresholds{Hedged: 0.35, Certain: 0.65},
	}
}

func (c CertaintyConfig) Level(score float64) types.CertaintyLevel {
	switch {
	case score < c.Thresholds.Hedged:
		return types.CertaintyUncertain
	case score < c.Thresholds.Certain:
		return types.CertaintyHedged
	default:
		return types.CertaintyCertain
	}
}

type Certainty struct {
	Config CertaintyConfig
}

func NewCertainty(cfg CertaintyConfig) Certainty {
	return Certainty{Config: cfg}
}

// Extract scores certainty from the endings table's certainty markers.
// Markers flagged final only count when the last sentence ends with them;
// the longest such marker wins.
func (c Certainty) Extract(tokens []types.TokenDetail, text string, table dictionary.EndingsTable) types.CertaintySignal {
	out := types.CertaintySignal{
		Level:         c.Config.Level(clamp(c.Config.Neutral)),
		Score:         clamp(c.Config.Neutral),
		DetectedWords: []types.DetectedWord{},
	}
	if len(tokens) == 0 {
		return out
	}

	var anywhere, final []dictionary.Entry
	for _, e := range table.Certainty {
		if e.Final {
			final = append(final, e)
		} else {
			anywhere = append(anywhere, e)
		}
	}
	hits := scan(text, tokens, anywhere)

	if span, end := finalSpan(tokens); span != "" {
		var best *dictionary.Entry
		for i := range final {
			e := &final[i]
			if e.Word == "" || !strings.HasSuffix(span, e.Word) {
				continue
			}
			if best == nil || len(e.Word) > len(best.Word) {
				best = e
			}
		}
		if best != nil && !overlaps(hits, end-len(best.Word), end) {
			hits = insertByPosition(hits, types.DetectedWord{
				Surface:  best.Word,
				Category: best.Category,
				Weight:   best.Weight,
				Position: end - len(best.Word),
			})
		}
	}

	score := c.Config.Neutral + sumWeights(hits)
	hedged := false
	for _, h := range hits {
		if h.Category == hedgeCategory {
			hedged = true
			break
		}
	}
	if !hedged {
		score += c.Config.NoHedgeBonus
	}
	out.DetectedWords = hits
	out.Score = clamp(score)
	out.Level = c.Config.Level(out.Score)
	return out
}

func overlaps(hits []types.DetectedWord, start, end int) bool {
	for _, h := range hits {
		if h.Position < end && start < h.Position+len(h.Surface) {
			return true
		}
	}
	return false
}

func insertByPosition(hits []types.DetectedWord, w types.DetectedWord) []types.DetectedWord {
	i := 0
	for i < len(hits) && hits[i].Position <= w.Position {
		i++
	}
	hits = append(hits, types.DetectedWord{})
	copy(hits[i+1:], hits[i:])
	hits[i] = w
	return hits
}
