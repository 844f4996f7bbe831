// Package extractor holds the four rule-based signal extractors. Each is a
// pure function of (tokens, normalized text, dictionary table) plus its
// documented configuration.
package extractor

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/textutil"
	"context-signals-go/internal/types"
)

// scan finds dictionary words in text, longest entries first, never
// letting two hits overlap. A second pass over tokens catches inflected
// forms whose base form is a dictionary word (困っ -> 困る). Hits are
// returned in text order.
func scan(text string, tokens []types.TokenDetail, entries []dictionary.Entry) []types.DetectedWord {
	hits := []types.DetectedWord{}
	if text == "" || len(entries) == 0 {
		return hits
	}
	covered := make([]bool, len(text))
	free := func(start, end int) bool {
		for i := start; i < end; i++ {
			if covered[i] {
				return false
			}
		}
		return true
	}
	mark := func(start, end int) {
		for i := start; i < end; i++ {
			covered[i] = true
		}
	}

	for _, e := range longestFirst(entries) {
		from := 0
		for from < len(text) {
			idx := strings.Index(text[from:], e.Word)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(e.Word)
			if !free(start, end) {
				_, size := utf8.DecodeRuneInString(text[start:])
				from = start + size
				continue
			}
			mark(start, end)
			hits = append(hits, types.DetectedWord{Surface: e.Word, Category: e.Category, Weight: e.Weight, Position: start})
			from = end
		}
	}

	byWord := make(map[string]dictionary.Entry, len(entries))
	for _, e := range entries {
		if _, ok := byWord[e.Word]; !ok {
			byWord[e.Word] = e
		}
	}
	for _, tk := range tokens {
		if tk.BaseForm == "" || tk.BaseForm == tk.Surface {
			continue
		}
		e, ok := byWord[tk.BaseForm]
		if !ok {
			continue
		}
		start, end := tk.Start, tk.Start+len(tk.Surface)
		if start < 0 || end > len(text) || text[start:end] != tk.Surface || !free(start, end) {
			continue
		}
		mark(start, end)
		hits = append(hits, types.DetectedWord{Surface: tk.Surface, Category: e.Category, Weight: e.Weight, Position: start})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Position < hits[j].Position })
	return hits
}

func longestFirst(entries []dictionary.Entry) []dictionary.Entry {
	out := make([]dictionary.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Word != "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Word) > len(out[j].Word)
	})
	return out
}

// finalSpan is the text of the last sentence: the tokens after the last
// sentence-punctuation token, ignoring trailing punctuation. end is the
// byte offset just past the span.
func finalSpan(tokens []types.TokenDetail) (span string, end int) {
	last := len(tokens) - 1
	for last >= 0 && (tokens[last].Surface == "" || textutil.OnlyBoundaries(tokens[last].Surface)) {
		last--
	}
	if last < 0 {
		return "", 0
	}
	first := last
	for first > 0 {
		prev := tokens[first-1]
		if prev.Surface != "" && strings.IndexFunc(prev.Surface, textutil.IsBoundary) >= 0 {
			break
		}
		// the fallback tokenizer drops punctuation, leaving a gap
		if prev.Start+len(prev.Surface) < tokens[first].Start {
			break
		}
		first--
	}
	var b strings.Builder
	for _, tk := range tokens[first : last+1] {
		b.WriteString(tk.Surface)
	}
	return b.String(), tokens[last].Start + len(tokens[last].Surface)
}

func sumWeights(hits []types.DetectedWord) float64 {
	total := 0.0
	for _, h := range hits {
		total += h.Weight
	}
	return total
}

// clamp restricts v to [0, 1] and rounds to 4 decimals so threshold
// comparisons are not at the mercy of float accumulation.
func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return math.Round(v*1e4) / 1e4
}
