package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"context-signals-go/internal/analyzer"
	"context-signals-go/internal/config"
	"context-signals-go/internal/logger"
	"context-signals-go/internal/types"
)

func newTestServer(t *testing.T, initTokenizer bool) (*Server, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Tokenizer.Backend = config.BackendFallback
	an, err := cfg.NewAnalyzer(logger.Discard())
	require.NoError(t, err)
	if initTokenizer {
		an.Init(context.Background())
	}
	return New(cfg, an, logger.Discard()), cfg
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s, _ = newTestServer(t, true)
	rec = do(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp readyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, "unavailable", resp.Tokenizer)
	assert.Len(t, resp.DictionaryVersions, 4)
}

func TestAnalyze(t *testing.T) {
	s, _ := newTestServer(t, true)
	rec := do(t, s, http.MethodPost, "/analyze", `{"text":"至急ご確認いただけますでしょうか。システムが停止しております。"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out types.AnalysisOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.ID, 36)
	assert.Equal(t, types.ActionEscalateUrgent, out.Recommendation.Action)
	assert.Equal(t, types.UrgencyCritical, out.Signals.Urgency.Level)
}

func TestAnalyzeKeepsID(t *testing.T) {
	s, _ := newTestServer(t, true)
	rec := do(t, s, http.MethodPost, "/analyze", `{"id":"t-42","text":"ありがとうございます","verb_analysis":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out types.AnalysisOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "t-42", out.ID)
}

func TestAnalyzeErrors(t *testing.T) {
	s, cfg := newTestServer(t, true)

	rec := do(t, s, http.MethodPost, "/analyze", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/analyze", `{"body":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	long := strings.Repeat("あ", cfg.Analyzer.MaxTextRunes+1)
	rec = do(t, s, http.MethodPost, "/analyze", `{"text":"`+long+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid input")

	rec = do(t, s, http.MethodGet, "/analyze", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeBatch(t *testing.T) {
	s, _ := newTestServer(t, true)
	body := `{"inputs":[{"id":"a","text":"至急対応お願いします"},{"text":"特に問題ありません、ありがとうございます。"}]}`
	rec := do(t, s, http.MethodPost, "/analyze/batch", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out types.BatchAnalysisOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "a", out.Items[0].ID)
	assert.NotEmpty(t, out.Items[1].ID)
	assert.Equal(t, 2, out.Summary.Analyzed)
	assert.Equal(t, 1, out.Summary.ByAction["no-action"])
}

func TestDemo(t *testing.T) {
	s, cfg := newTestServer(t, true)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"id", "message"},
		{"1", "至急対応お願いします"},
		{"2", "ありがとうございます"},
		{"3", "心配です"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "demo.xlsx")
	cfg.Dataset.DemoLimit = 2
	require.NoError(t, f.SaveAs(cfg.Dataset.Path))
	require.NoError(t, f.Close())

	rec := do(t, s, http.MethodGet, "/demo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out types.BatchAnalysisOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Summary.Total)

	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.xlsx")
	rec = do(t, s, http.MethodGet, "/demo", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(analyzer.ErrInvalidInput))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
