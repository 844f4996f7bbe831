package extractor

import (
	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/types"
)

// EmotionConfig: intensity = min(1, winning sum / Saturation).
type EmotionConfig struct {
	Saturation float64 `yaml:"saturation"`
}

func DefaultEmotionConfig() EmotionConfig {
	return EmotionConfig{Saturation: 1.5}
}

type Emotion struct {
	Config EmotionConfig
}

func NewEmotion(cfg EmotionConfig) Emotion {
	if cfg.Saturation <= 0 {
		cfg.Saturation = DefaultEmotionConfig().Saturation
	}
	return Emotion{Config: cfg}
}

// Extract picks the category with the highest summed weight. Ties go to
// the category whose first hit comes earliest in the text.
func (e Emotion) Extract(tokens []types.TokenDetail, text string, table dictionary.EmotionTable) types.EmotionSignal {
	out := types.EmotionSignal{Category: types.EmotionNeutral, DetectedWords: []types.DetectedWord{}}
	if len(tokens) == 0 {
		return out
	}
	hits := scan(text, tokens, table.Entries)
	out.DetectedWords = hits
	if len(hits) == 0 {
		return out
	}

	sums := map[types.EmotionCategory]float64{}
	var order []types.EmotionCategory
	for _, h := range hits {
		cat := types.EmotionCategory(h.Category)
		if _, seen := sums[cat]; !seen {
			order = append(order, cat)
		}
		sums[cat] += h.Weight
	}

	winner := order[0]
	for _, cat := range order[1:] {
		if sums[cat] > sums[winner]+1e-9 {
			winner = cat
		}
	}
	saturation := e.Config.Saturation
	if saturation <= 0 {
		saturation = DefaultEmotionConfig().Saturation
	}
	out.Category = winner
	out.Intensity = clamp(sums[winner] / saturation)
	return out
}
