package extractor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/tokenizer"
	"context-signals-go/internal/types"
)

// morphemes builds contiguous tokens the way a morphological backend
// reports them, punctuation included.
func morphemes(parts ...string) []types.TokenDetail {
	out := make([]types.TokenDetail, 0, len(parts))
	pos := 0
	for _, p := range parts {
		out = append(out, types.TokenDetail{Surface: p, POS: "名詞", BaseForm: p, Start: pos})
		pos += len(p)
	}
	return out
}

func TestScanLongestFirstNoOverlap(t *testing.T) {
	entries := []dictionary.Entry{
		{Word: "至急", Category: "deadline", Weight: 0.6},
		{Word: "大至急", Category: "deadline", Weight: 0.8},
		{Word: "停止", Category: "failure", Weight: 0.4},
	}
	text := "大至急!停止中"
	hits := scan(text, tokenizer.Fallback(text), entries)

	require.Len(t, hits, 2)
	assert.Equal(t, types.DetectedWord{Surface: "大至急", Category: "deadline", Weight: 0.8, Position: 0}, hits[0])
	assert.Equal(t, "停止", hits[1].Surface)
	assert.Equal(t, len("大至急!"), hits[1].Position)
}

func TestScanRepeatedWordCountsEachOccurrence(t *testing.T) {
	entries := []dictionary.Entry{{Word: "至急", Category: "deadline", Weight: 0.6}}
	text := "至急、至急"
	hits := scan(text, tokenizer.Fallback(text), entries)
	require.Len(t, hits, 2)
	assert.Less(t, hits[0].Position, hits[1].Position)
}

func TestScanBaseForm(t *testing.T) {
	entries := []dictionary.Entry{{Word: "困る", Category: "frustration", Weight: 0.6}}
	text := "困った"
	tokens := []types.TokenDetail{
		{Surface: "困っ", POS: "動詞", BaseForm: "困る", Start: 0},
		{Surface: "た", POS: "助動詞", BaseForm: "た", Start: len("困っ")},
	}
	hits := scan(text, tokens, entries)
	require.Len(t, hits, 1)
	assert.Equal(t, "困っ", hits[0].Surface)
	assert.Equal(t, 0, hits[0].Position)
}

func TestScanEmpty(t *testing.T) {
	assert.Empty(t, scan("", nil, []dictionary.Entry{{Word: "a", Weight: 1}}))
	assert.NotNil(t, scan("abc", nil, nil))
}

func TestFinalSpan(t *testing.T) {
	cases := []struct {
		name   string
		tokens []types.TokenDetail
		want   string
	}{
		{"single sentence", morphemes("確認", "し", "ます"), "確認します"},
		{"last sentence only", morphemes("ありがとう", "。", "確認", "しろ"), "確認しろ"},
		{"trailing punctuation ignored", morphemes("確認", "します", "。", "!"), "確認します"},
		{"fallback segments", tokenizer.Fallback("ありがとうございます。確認しろ"), "確認しろ"},
		{"punctuation only", morphemes("。", "!"), ""},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			span, end := finalSpan(tc.tokens)
			assert.Equal(t, tc.want, span)
			if span != "" {
				last := tc.tokens[len(tc.tokens)-1]
				assert.LessOrEqual(t, end, last.Start+len(last.Surface))
			}
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-0.2))
	assert.Equal(t, 1.0, clamp(1.7))
	assert.Equal(t, 0.0, clamp(math.NaN()))
	assert.Equal(t, 0.3, clamp(0.1+0.2))
}

func TestExtractorsSkipEmptyBaseForm(t *testing.T) {
	d := dictionary.Default()
	text := "困っ"
	tokens := []types.TokenDetail{{Surface: "困っ", POS: "動詞", BaseForm: ""}}

	cases := map[string]func() (score float64, valid bool){
		"emotion": func() (float64, bool) {
			sig := NewEmotion(DefaultEmotionConfig()).Extract(tokens, text, d.Emotion)
			return sig.Intensity, sig.Category.Valid() && sig.DetectedWords != nil
		},
		"urgency": func() (float64, bool) {
			sig := NewUrgency(DefaultUrgencyConfig()).Extract(tokens, text, d.Urgency)
			return sig.Score, sig.Level.Rank() >= 0 && sig.DetectedWords != nil
		},
		"certainty": func() (float64, bool) {
			sig := NewCertainty(DefaultCertaintyConfig()).Extract(tokens, text, d.Endings)
			return sig.Score, sig.Level == DefaultCertaintyConfig().Level(sig.Score) && sig.DetectedWords != nil
		},
		"politeness": func() (float64, bool) {
			sig := NewPoliteness(DefaultPolitenessConfig()).Extract(tokens, text, d.Endings, d.Politeness)
			return sig.Score, sig.Level == DefaultPolitenessConfig().Level(sig.Score) && sig.Markers != nil
		},
	}
	for name, extract := range cases {
		t.Run(name, func(t *testing.T) {
			var score float64
			var valid bool
			require.NotPanics(t, func() { score, valid = extract() })
			assert.True(t, valid)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}

	// the empty base form never produces a base-form hit
	hits := scan(text, tokens, []dictionary.Entry{{Word: "困る", Category: "frustration", Weight: 0.6}})
	assert.Empty(t, hits)
}
