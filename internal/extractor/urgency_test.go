package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/tokenizer"
	"context-signals-go/internal/types"
)

func extractUrgency(text string) types.UrgencySignal {
	return NewUrgency(DefaultUrgencyConfig()).Extract(tokenizer.Fallback(text), text, dictionary.Default().Urgency)
}

func TestUrgencyCritical(t *testing.T) {
	sig := extractUrgency("至急対応お願いします!システムが停止しています")
	assert.Equal(t, types.UrgencyCritical, sig.Level)
	assert.Equal(t, 1.0, sig.Score)
	assert.Len(t, sig.DetectedWords, 3)
}

func TestUrgencyLow(t *testing.T) {
	sig := extractUrgency("資料を送付します")
	assert.Equal(t, types.UrgencyLow, sig.Level)
	assert.Zero(t, sig.Score)
	assert.Empty(t, sig.DetectedWords)
}

func TestUrgencyPunctuation(t *testing.T) {
	u := NewUrgency(DefaultUrgencyConfig())
	assert.InDelta(t, 0.3, u.punctuation("確認!!"), 1e-9)
	assert.InDelta(t, 0.05, u.punctuation("確認?"), 1e-9)
	assert.InDelta(t, 0.3, u.punctuation("はい!!!!!"), 1e-9)
	assert.Zero(t, u.punctuation("確認"))

	sig := extractUrgency("確認!!")
	assert.Equal(t, types.UrgencyMedium, sig.Level)
}

func TestUrgencyActionVerbs(t *testing.T) {
	u := NewUrgency(DefaultUrgencyConfig())
	tokens := []types.TokenDetail{
		{Surface: "送っ", POS: "動詞", BaseForm: "送る", VerbType: types.VerbAction},
		{Surface: "ある", POS: "動詞", BaseForm: "ある", VerbType: types.VerbState},
		{Surface: "資料", POS: "名詞", BaseForm: "資料"},
	}
	assert.InDelta(t, 0.075, u.verbs(tokens), 1e-9)
	assert.Zero(t, u.verbs(tokenizer.Fallback("送ってください")))
}

func TestUrgencyLevelBoundaries(t *testing.T) {
	cfg := DefaultUrgencyConfig()
	assert.Equal(t, types.UrgencyLow, cfg.Level(0.2499))
	assert.Equal(t, types.UrgencyMedium, cfg.Level(0.25))
	assert.Equal(t, types.UrgencyHigh, cfg.Level(0.5))
	assert.Equal(t, types.UrgencyCritical, cfg.Level(0.75))
	assert.Equal(t, types.UrgencyCritical, cfg.Level(1))
}

func TestUrgencyEmptyTokens(t *testing.T) {
	sig := NewUrgency(DefaultUrgencyConfig()).Extract(nil, "", dictionary.Default().Urgency)
	assert.Equal(t, types.UrgencyLow, sig.Level)
	assert.NotNil(t, sig.DetectedWords)
}
