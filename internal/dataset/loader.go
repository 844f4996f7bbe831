package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"context-signals-go/internal/types"
)

var textHeaders = []string{"text", "message", "body", "transcript", "本文", "内容", "メッセージ", "問い合わせ"}

// Load reads messages from the first sheet of an xlsx workbook. The id and
// text columns are found by header keywords; without a match the first
// column is the id and the second the text. Rows with blank text are
// skipped; rows without an id get "row-<n>".
func Load(path string) ([]types.AnalysisInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	idIdx, textIdx := columns(rows[0])
	out := []types.AnalysisInput{}
	for i, r := range rows {
		if i == 0 {
			continue
		}
		text := cell(r, textIdx)
		if strings.TrimSpace(text) == "" {
			continue
		}
		id := strings.TrimSpace(cell(r, idIdx))
		if id == "" {
			id = fmt.Sprintf("row-%d", i+1)
		}
		out = append(out, types.AnalysisInput{ID: id, Text: text})
	}
	return out, nil
}

func columns(header []string) (idIdx, textIdx int) {
	idIdx, textIdx = -1, -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case idIdx == -1 && isIDHeader(l):
			idIdx = i
		case textIdx == -1 && containsAny(l, textHeaders):
			textIdx = i
		}
	}
	// fallback heuristics
	if textIdx == -1 {
		switch {
		case len(header) < 2 || idIdx == 1:
			textIdx = 0
		default:
			textIdx = 1
		}
	}
	if idIdx == -1 && textIdx != 0 {
		idIdx = 0
	}
	return idIdx, textIdx
}

func isIDHeader(l string) bool {
	return l == "id" || strings.HasSuffix(l, "_id") || strings.HasSuffix(l, " id") || strings.Contains(l, "番号")
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func cell(r []string, idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}
