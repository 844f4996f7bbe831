// Package server exposes the analyzer over JSON/HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"context-signals-go/internal/analyzer"
	"context-signals-go/internal/config"
	"context-signals-go/internal/dataset"
	"context-signals-go/internal/logger"
	"context-signals-go/internal/types"
)

type Server struct {
	cfg *config.Config
	an  *analyzer.Analyzer
	log *logger.Logger
	mux *http.ServeMux
}

func New(cfg *config.Config, an *analyzer.Analyzer, log *logger.Logger) *Server {
	s := &Server{cfg: cfg, an: an, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /healthz", s.healthz)
	s.mux.HandleFunc("GET /readyz", s.readyz)
	s.mux.HandleFunc("POST /analyze", s.analyze)
	s.mux.HandleFunc("POST /analyze/batch", s.analyzeBatch)
	s.mux.HandleFunc("GET /demo", s.demo)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type analyzeRequest struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	VerbAnalysis *bool  `json:"verb_analysis,omitempty"`
}

type batchRequest struct {
	Inputs       []types.AnalysisInput `json:"inputs"`
	VerbAnalysis *bool                 `json:"verb_analysis,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type readyResponse struct {
	Ready              bool              `json:"ready"`
	Tokenizer          string            `json:"tokenizer"`
	DictionaryVersions map[string]string `json:"dictionary_versions"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	resp := readyResponse{
		Ready:              s.an.Ready(),
		Tokenizer:          s.an.TokenizerState().String(),
		DictionaryVersions: s.an.DictionaryVersions(),
	}
	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, s.log.WithRequest(r), status, resp)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "analyze")

	var req analyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		reqLog.WithError(err).Warn("bad request body")
		writeJSON(w, reqLog, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	reqLog = reqLog.WithField("id", req.ID)

	start := time.Now()
	out, err := s.an.Analyze(r.Context(), types.AnalysisInput{ID: req.ID, Text: req.Text}, verbOption(req.VerbAnalysis)...)
	if err != nil {
		reqLog.WithError(err).Warn("analysis rejected")
		writeJSON(w, reqLog, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	reqLog.WithFields(logrus.Fields{
		"action":      out.Recommendation.Action,
		"score":       out.OverallScore.Value,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("message analyzed")
	writeJSON(w, reqLog, http.StatusOK, out)
}

func (s *Server) analyzeBatch(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "analyze_batch")

	var req batchRequest
	if err := s.decode(w, r, &req); err != nil {
		reqLog.WithError(err).Warn("bad request body")
		writeJSON(w, reqLog, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	for i := range req.Inputs {
		if req.Inputs[i].ID == "" {
			req.Inputs[i].ID = uuid.New().String()
		}
	}
	s.runBatch(w, r, reqLog, req.Inputs, verbOption(req.VerbAnalysis))
}

// demo analyzes the first rows of the configured dataset.
func (s *Server) demo(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "demo")
	reqLog.Info("demo invoked")

	inputs, err := dataset.Load(s.cfg.Dataset.Path)
	if err != nil {
		reqLog.WithError(err).Error("dataset load error")
		writeJSON(w, reqLog, http.StatusInternalServerError, errorResponse{Error: "dataset load error"})
		return
	}
	if limit := s.cfg.Dataset.DemoLimit; limit > 0 && len(inputs) > limit {
		inputs = inputs[:limit]
	}
	s.runBatch(w, r, reqLog, inputs, nil)
}

func (s *Server) runBatch(w http.ResponseWriter, r *http.Request, reqLog *logrus.Entry, inputs []types.AnalysisInput, opts []analyzer.AnalyzeOption) {
	out, err := s.an.AnalyzeBatch(r.Context(), inputs, opts...)
	if err != nil {
		reqLog.WithError(err).Warn("batch aborted")
		writeJSON(w, reqLog, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	reqLog.WithFields(logrus.Fields{
		"total":  out.Summary.Total,
		"failed": out.Summary.Failed,
	}).Info("batch analyzed")
	writeJSON(w, reqLog, http.StatusOK, out)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if s.cfg.Server.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func verbOption(on *bool) []analyzer.AnalyzeOption {
	if on == nil {
		return nil
	}
	return []analyzer.AnalyzeOption{analyzer.WithVerbAnalysis(*on)}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, reqLog *logrus.Entry, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}
