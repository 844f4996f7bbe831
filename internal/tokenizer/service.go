// Package tokenizer adapts a morphological analyzer to the token records
// the extractors consume. The backend is built lazily, once, and the
// service degrades to a deterministic fallback splitter when it cannot be
// built or fails at runtime.
package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"context-signals-go/internal/logger"
	"context-signals-go/internal/types"
)

// UnknownPOS marks tokens produced without a morphological backend.
const UnknownPOS = "unknown"

const verbPOS = "動詞"

// ErrNoBackend is the unavailability cause of a service created without a factory.
var ErrNoBackend = errors.New("no tokenizer backend configured")

// State is the lifecycle position of a Service.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Terminal states never change again.
func (s State) Terminal() bool {
	return s == StateReady || s == StateUnavailable
}

// InitResult is the outcome of Init: Ready, Unavailable with its cause, or
// still in flight when the caller's context ended first.
type InitResult struct {
	State State
	Err   error
}

func (r InitResult) Ready() bool       { return r.State == StateReady }
func (r InitResult) Unavailable() bool { return r.State == StateUnavailable }

// RawToken is what a backend reports per morpheme. POS holds the
// hierarchical part-of-speech labels, most general first. Position is the
// byte offset of Surface in the input.
type RawToken struct {
	Surface  string
	POS      []string
	BaseForm string
	Position int
}

// Backend is any morphological analyzer.
type Backend interface {
	Tokenize(text string) ([]RawToken, error)
}

// Factory builds a Backend. It is called at most once per successful Init
// (plus configured retries).
type Factory func() (Backend, error)

// Service tokenizes text through a lazily built Backend, falling back to
// Fallback while the backend is missing.
type Service struct {
	factory  Factory
	log      *logger.Logger
	retries  uint64
	interval time.Duration

	group singleflight.Group

	mu      sync.RWMutex
	state   State
	backend Backend
	cause   error
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.WithComponent("tokenizer")
		}
	}
}

// WithInitRetries lets one Init attempt rebuild the backend up to n more
// times, interval apart, before the service settles on Unavailable.
func WithInitRetries(n int, interval time.Duration) Option {
	return func(s *Service) {
		if n > 0 {
			s.retries = uint64(n)
		}
		if interval > 0 {
			s.interval = interval
		}
	}
}

func NewService(factory Factory, opts ...Option) *Service {
	s := &Service{
		factory:  factory,
		log:      logger.Discard(),
		interval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current lifecycle state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready is true once initialization has finished either way; the fallback
// still produces valid tokens.
func (s *Service) Ready() bool {
	return s.State().Terminal()
}

// Init builds the backend. Concurrent callers share one build. A caller
// whose ctx ends before the build finishes gets the in-flight state back
// and may proceed with the fallback.
func (s *Service) Init(ctx context.Context) InitResult {
	if r := s.current(); r.State.Terminal() {
		return r
	}
	ch := s.group.DoChan("init", func() (any, error) {
		return s.build(), nil
	})
	select {
	case res := <-ch:
		return res.Val.(InitResult)
	case <-ctx.Done():
		return s.current()
	}
}

func (s *Service) current() InitResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return InitResult{State: s.state, Err: s.cause}
}

func (s *Service) build() InitResult {
	s.mu.Lock()
	if s.state.Terminal() {
		r := InitResult{State: s.state, Err: s.cause}
		s.mu.Unlock()
		return r
	}
	s.state = StateInitializing
	s.mu.Unlock()

	start := time.Now()
	backend, err := s.construct()

	s.mu.Lock()
	if err != nil {
		s.state = StateUnavailable
		s.cause = err
	} else {
		s.state = StateReady
		s.backend = backend
	}
	r := InitResult{State: s.state, Err: s.cause}
	s.mu.Unlock()

	entry := s.log.WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		entry.WithField("error", err.Error()).Warn("tokenizer backend unavailable, using fallback tokenizer")
	} else {
		entry.Info("tokenizer backend ready")
	}
	return r
}

func (s *Service) construct() (Backend, error) {
	if s.factory == nil {
		return nil, ErrNoBackend
	}
	var backend Backend
	attempt := 0
	op := func() error {
		attempt++
		b, err := safeBuild(s.factory)
		if err != nil {
			s.log.WithField("attempt", attempt).WithField("error", err.Error()).Debug("tokenizer backend build failed")
			return err
		}
		backend = b
		return nil
	}
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(s.interval), s.retries)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return backend, nil
}

func safeBuild(f Factory) (b Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("tokenizer backend panicked: %v", r)
		}
	}()
	b, err = f()
	if err == nil && b == nil {
		err = errors.New("tokenizer factory returned no backend")
	}
	return b, err
}

// Tokenize waits for initialization (starting it on first use, or joining
// the build already in flight) until ctx ends, then tokenizes text.
func (s *Service) Tokenize(ctx context.Context, text string, classifyVerbs bool) []types.TokenDetail {
	if !s.State().Terminal() {
		s.Init(ctx)
	}
	return s.TokenizeSync(text, classifyVerbs)
}

// TokenizeSync never triggers initialization; before the backend is ready
// it returns the fallback segmentation.
func (s *Service) TokenizeSync(text string, classifyVerbs bool) []types.TokenDetail {
	if text == "" {
		return []types.TokenDetail{}
	}
	s.mu.RLock()
	state, backend := s.state, s.backend
	s.mu.RUnlock()
	if state != StateReady {
		return Fallback(text)
	}
	raw, err := safeTokenize(backend, text)
	if err != nil {
		s.downgrade(err)
		return Fallback(text)
	}
	return convert(raw, classifyVerbs)
}

func safeTokenize(b Backend, text string) (raw []RawToken, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("tokenizer backend panicked: %v", r)
		}
	}()
	return b.Tokenize(text)
}

// downgrade moves a ready service to Unavailable for good.
func (s *Service) downgrade(err error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return
	}
	s.state = StateUnavailable
	s.backend = nil
	s.cause = err
	s.mu.Unlock()
	s.log.WithError(err).Error("tokenizer backend failed, switching to fallback tokenizer")
}

func convert(raw []RawToken, classifyVerbs bool) []types.TokenDetail {
	out := make([]types.TokenDetail, 0, len(raw))
	for _, rt := range raw {
		td := types.TokenDetail{
			Surface:  rt.Surface,
			POS:      feature(rt.POS, 0),
			BaseForm: rt.BaseForm,
			Start:    rt.Position,
		}
		td.POSDetail = feature(rt.POS, 1)
		if td.POS == "" {
			td.POS = UnknownPOS
		}
		if td.BaseForm == "" || td.BaseForm == "*" {
			td.BaseForm = rt.Surface
		}
		if classifyVerbs && td.POS == verbPOS {
			if IsStateVerb(td.BaseForm) {
				td.VerbType = types.VerbState
			} else {
				td.VerbType = types.VerbAction
			}
		}
		out = append(out, td)
	}
	return out
}

func feature(pos []string, i int) string {
	if i >= len(pos) || pos[i] == "*" {
		return ""
	}
	return pos[i]
}
