package tokenizer

import (
	"unicode/utf8"

	"context-signals-go/internal/textutil"
	"context-signals-go/internal/types"
)

// Fallback splits text into coarse segments on runs of sentence
// punctuation and whitespace. It never classifies verbs.
func Fallback(text string) []types.TokenDetail {
	out := []types.TokenDetail{}
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		seg := text[start:end]
		out = append(out, types.TokenDetail{
			Surface:  seg,
			POS:      UnknownPOS,
			BaseForm: seg,
			Start:    start,
		})
		start = -1
	}
	for i, r := range text {
		if r == utf8.RuneError || !textutil.IsBoundary(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return out
}
