package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/tokenizer"
	"context-signals-go/internal/types"
)

func extractEmotion(text string) types.EmotionSignal {
	return NewEmotion(DefaultEmotionConfig()).Extract(tokenizer.Fallback(text), text, dictionary.Default().Emotion)
}

func TestEmotionFrustration(t *testing.T) {
	sig := extractEmotion("何度も連絡しているのに改善されない。本当に困っています")
	assert.Equal(t, types.EmotionFrustration, sig.Category)
	assert.Equal(t, 1.0, sig.Intensity)
	require.Len(t, sig.DetectedWords, 3)
	assert.Equal(t, "何度も", sig.DetectedWords[0].Surface)
}

func TestEmotionIntensityScales(t *testing.T) {
	sig := extractEmotion("心配しています")
	assert.Equal(t, types.EmotionAnxiety, sig.Category)
	assert.Equal(t, 0.4, sig.Intensity)
}

func TestEmotionTieGoesToEarliest(t *testing.T) {
	sig := extractEmotion("心配でしたがありがとう")
	assert.Equal(t, types.EmotionAnxiety, sig.Category)

	sig = extractEmotion("ありがとう、でも心配")
	assert.Equal(t, types.EmotionSatisfaction, sig.Category)
}

func TestEmotionNeutral(t *testing.T) {
	sig := extractEmotion("資料を送付します")
	assert.Equal(t, types.EmotionNeutral, sig.Category)
	assert.Zero(t, sig.Intensity)
	assert.NotNil(t, sig.DetectedWords)
	assert.Empty(t, sig.DetectedWords)
}

func TestEmotionEmptyTokens(t *testing.T) {
	sig := NewEmotion(DefaultEmotionConfig()).Extract(nil, "", dictionary.Default().Emotion)
	assert.Equal(t, types.EmotionNeutral, sig.Category)
	assert.Zero(t, sig.Intensity)
	assert.NotNil(t, sig.DetectedWords)
}

func TestEmotionZeroSaturationUsesDefault(t *testing.T) {
	e := NewEmotion(EmotionConfig{})
	assert.Equal(t, 1.5, e.Config.Saturation)
}
