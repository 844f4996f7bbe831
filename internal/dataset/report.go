package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"context-signals-go/internal/types"
)

const (
	ResultsSheet = "results"
	SummarySheet = "summary"
)

var resultHeader = []any{
	"id", "action", "overall_score", "contributing_signals",
	"urgency", "urgency_score", "emotion", "emotion_intensity",
	"certainty", "certainty_score", "politeness", "politeness_score",
	"error", "text",
}

// WriteReport saves a batch result as an xlsx workbook with one row per
// message on the results sheet and the batch counts on the summary sheet.
func WriteReport(path string, out types.BatchAnalysisOutput) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, ResultsSheet, 1, resultHeader); err != nil {
		return err
	}
	for i, it := range out.Items {
		if err := setRow(f, ResultsSheet, i+2, resultRow(it)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	for i, row := range summaryRows(out.Summary) {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func resultRow(it types.BatchItem) []any {
	if it.Output == nil {
		return []any{it.ID, "", "", "", "", "", "", "", "", "", "", "", it.Error, ""}
	}
	o := it.Output
	s := o.Signals
	return []any{
		it.ID,
		string(o.Recommendation.Action),
		o.OverallScore.Value,
		strings.Join(o.OverallScore.ContributingSignals, ","),
		string(s.Urgency.Level), s.Urgency.Score,
		string(s.Emotion.Category), s.Emotion.Intensity,
		string(s.Certainty.Level), s.Certainty.Score,
		string(s.Politeness.Level), s.Politeness.Score,
		"",
		o.Text,
	}
}

func summaryRows(sum types.BatchSummary) [][]any {
	rows := [][]any{
		{"metric", "value"},
		{"total", sum.Total},
		{"analyzed", sum.Analyzed},
		{"failed", sum.Failed},
		{"mean_overall_score", sum.MeanOverallScore},
	}
	for _, l := range types.UrgencyLevels() {
		rows = append(rows, []any{"urgency." + string(l), sum.ByUrgency[string(l)]})
	}
	for _, c := range types.EmotionCategories() {
		rows = append(rows, []any{"emotion." + string(c), sum.ByEmotion[string(c)]})
	}
	for _, a := range types.RecommendedActions() {
		rows = append(rows, []any{"action." + string(a), sum.ByAction[string(a)]})
	}
	return rows
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
