// Package analyzer runs the signal pipeline over a message: normalize,
// tokenize, extract the four signals, combine them into an overall score
// and pick a recommended action.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"context-signals-go/internal/actionable"
	"context-signals-go/internal/aggregator"
	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/extractor"
	"context-signals-go/internal/logger"
	"context-signals-go/internal/textutil"
	"context-signals-go/internal/tokenizer"
	"context-signals-go/internal/types"
)

// ErrInvalidInput is wrapped by every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Signal names as reported in OverallScore.ContributingSignals.
const (
	SignalUrgency    = "urgency"
	SignalEmotion    = "emotion"
	SignalCertainty  = "certainty"
	SignalPoliteness = "politeness"
)

// Analyzer is safe for concurrent use once built.
type Analyzer struct {
	dicts *dictionary.Set
	tok   *tokenizer.Service
	cfg   Config
	log   *logger.Logger

	emotion    extractor.Emotion
	urgency    extractor.Urgency
	certainty  extractor.Certainty
	politeness extractor.Politeness
}

// Option configures an Analyzer.
type Option func(*Analyzer)

func WithLogger(l *logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l.WithComponent("analyzer")
		}
	}
}

type analyzeOptions struct {
	verbs bool
}

// AnalyzeOption tunes a single Analyze or AnalyzeBatch call.
type AnalyzeOption func(*analyzeOptions)

// WithVerbAnalysis toggles state/action verb classification. It is on by
// default; turning it off drops the verb share from the urgency score.
func WithVerbAnalysis(on bool) AnalyzeOption {
	return func(o *analyzeOptions) { o.verbs = on }
}

// New wires an analyzer. A nil dictionary set uses the embedded tables; a
// nil tokenizer service analyzes with the fallback tokenizer only.
func New(dicts *dictionary.Set, tok *tokenizer.Service, cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer config: %w", err)
	}
	if dicts == nil {
		dicts = dictionary.Default()
	}
	if tok == nil {
		tok = tokenizer.NewService(nil)
	}
	a := &Analyzer{
		dicts:      dicts,
		tok:        tok,
		cfg:        cfg,
		log:        logger.Discard(),
		emotion:    extractor.NewEmotion(cfg.Emotion),
		urgency:    extractor.NewUrgency(cfg.Urgency),
		certainty:  extractor.NewCertainty(cfg.Certainty),
		politeness: extractor.NewPoliteness(cfg.Politeness),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Init prepares the tokenizer. It is optional: Analyze initializes on
// first use.
func (a *Analyzer) Init(ctx context.Context) tokenizer.InitResult {
	return a.tok.Init(ctx)
}

// Ready is true once tokenizer initialization has finished, whether the
// morphological backend or the fallback ended up serving.
func (a *Analyzer) Ready() bool {
	return a.tok.Ready()
}

func (a *Analyzer) TokenizerState() tokenizer.State {
	return a.tok.State()
}

func (a *Analyzer) DictionaryVersions() map[string]string {
	return a.dicts.Versions()
}

func (a *Analyzer) validate(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(text); n > a.cfg.MaxTextRunes {
		return fmt.Errorf("%w: text has %d characters, limit is %d", ErrInvalidInput, n, a.cfg.MaxTextRunes)
	}
	return nil
}

// Analyze produces the full signal record for one message. Only invalid
// input is an error; tokenizer trouble degrades to the fallback.
func (a *Analyzer) Analyze(ctx context.Context, in types.AnalysisInput, opts ...AnalyzeOption) (types.AnalysisOutput, error) {
	if err := a.validate(in.Text); err != nil {
		return types.AnalysisOutput{}, err
	}
	o := analyzeOptions{verbs: true}
	for _, opt := range opts {
		opt(&o)
	}

	text := textutil.Normalize(in.Text)
	tokens := a.tok.Tokenize(ctx, text, o.verbs)

	signals := types.SignalSet{
		Emotion:    a.emotion.Extract(tokens, text, a.dicts.Emotion),
		Urgency:    a.urgency.Extract(tokens, text, a.dicts.Urgency),
		Certainty:  a.certainty.Extract(tokens, text, a.dicts.Endings),
		Politeness: a.politeness.Extract(tokens, text, a.dicts.Endings, a.dicts.Politeness),
	}

	return types.AnalysisOutput{
		ID:                 in.ID,
		Text:               in.Text,
		Tokens:             tokens,
		Signals:            signals,
		OverallScore:       a.combine(signals),
		Recommendation:     actionable.Generate(signals),
		DictionaryVersions: a.dicts.Versions(),
	}, nil
}

// combine weights each signal's triage contribution. Low certainty and
// low politeness contribute; high values of either do not.
func (a *Analyzer) combine(s types.SignalSet) types.OverallScore {
	emotion := 0.0
	if s.Emotion.Category.Negative() {
		emotion = s.Emotion.Intensity
	}
	parts := []struct {
		name   string
		weight float64
		value  float64
	}{
		{SignalUrgency, a.cfg.Weights.Urgency, s.Urgency.Score},
		{SignalEmotion, a.cfg.Weights.Emotion, emotion},
		{SignalCertainty, a.cfg.Weights.Certainty, math.Max(0, (0.5-s.Certainty.Score)*2)},
		{SignalPoliteness, a.cfg.Weights.Politeness, math.Max(0, (0.5-s.Politeness.Score)*2)},
	}

	out := types.OverallScore{ContributingSignals: []string{}}
	total := 0.0
	for _, p := range parts {
		total += p.weight * p.value
		if p.weight > 0 && p.value >= a.cfg.MinContribution {
			out.ContributingSignals = append(out.ContributingSignals, p.name)
		}
	}
	out.Value = unit(total)
	return out
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return math.Round(v*1e4) / 1e4
}

// AnalyzeBatch analyzes inputs concurrently. Results keep input order; an
// invalid item is reported in its own slot without failing the batch. Only
// cancellation of ctx fails the whole call.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, inputs []types.AnalysisInput, opts ...AnalyzeOption) (types.BatchAnalysisOutput, error) {
	start := time.Now()
	items := make([]types.BatchItem, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.BatchConcurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := a.Analyze(gctx, in, opts...)
			if err != nil {
				a.log.WithField("id", in.ID).WithError(err).Warn("batch item rejected")
				items[i] = types.BatchItem{ID: in.ID, Error: err.Error()}
				return nil
			}
			items[i] = types.BatchItem{ID: in.ID, Output: &out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.BatchAnalysisOutput{}, fmt.Errorf("batch analysis: %w", err)
	}

	summary := aggregator.Aggregate(items)
	a.log.WithField("total", summary.Total).
		WithField("failed", summary.Failed).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("batch analyzed")
	return types.BatchAnalysisOutput{Items: items, Summary: summary}, nil
}
