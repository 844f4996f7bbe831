package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC (full-width ASCII and half-width kana fold to
// their canonical forms), trims surrounding space and drops control
// characters other than newline and tab.
func Normalize(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
}

// IsSentencePunct reports whether r closes or splits a sentence.
func IsSentencePunct(r rune) bool {
	switch r {
	case '、', '。', '！', '？', '!', '?', ',', '.', '，', '．':
		return true
	}
	return false
}

// IsBoundary reports whether r separates coarse segments: sentence
// punctuation or whitespace.
func IsBoundary(r rune) bool {
	return IsSentencePunct(r) || unicode.IsSpace(r)
}

// OnlyBoundaries is true when s is non-empty and made of boundary runes only.
func OnlyBoundaries(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsBoundary(r) {
			return false
		}
	}
	return true
}
