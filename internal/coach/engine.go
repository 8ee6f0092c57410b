// Package coach composes the heuristic engine with the optional language-model
// path. Every operation that has a local heuristic always returns a usable
// result; only micro-step generation surfaces an error.
package coach

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/keel/internal/cognitive"
	"github.com/sandeepkv93/keel/internal/llm"
)

// Source tells the UI whether a result came from the model or the local
// heuristics.
type Source string

const (
	SourceAI    Source = "ai"
	SourceBasic Source = "basic"
)

type Engine struct {
	clients   llm.Factory
	log       logrus.FieldLogger
	picker    cognitive.IndexPicker
	now       func() time.Time
	maxTokens int
}

type Option func(*Engine)

// WithPicker fixes the random source used for affirmations and quotes.
func WithPicker(p cognitive.IndexPicker) Option {
	return func(e *Engine) {
		if p != nil {
			e.picker = &lockedPicker{inner: p}
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// NewEngine builds an Engine. A nil factory disables the remote path.
func NewEngine(clients llm.Factory, log logrus.FieldLogger, opts ...Option) *Engine {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(nopWriter{})
		log = discard
	}
	e := &Engine{
		clients:   clients,
		log:       log,
		picker:    &lockedPicker{inner: cognitive.NewRandomPicker()},
		now:       time.Now,
		maxTokens: llm.DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encouragement returns a random quote for the coach view.
func (e *Engine) Encouragement() string {
	return cognitive.Quote(e.picker)
}

// client resolves a client for apiKey, or an API_KEY_REQUIRED error.
func (e *Engine) client(apiKey string) (llm.Client, error) {
	if apiKey == "" || e.clients == nil {
		return nil, llm.ErrAPIKeyRequired
	}
	return e.clients(apiKey)
}

func (e *Engine) complete(ctx context.Context, apiKey, system, content string, out any) error {
	client, err := e.client(apiKey)
	if err != nil {
		return err
	}
	text, err := client.Complete(ctx, llm.UserRequest(system, content, e.maxTokens))
	if err != nil {
		return err
	}
	return llm.DecodeReply(text, out)
}

// remoteEnabled reports whether a remote attempt should be made at all.
// Without a key the local path is the normal path, not a failure.
func (e *Engine) remoteEnabled(apiKey string) bool {
	return apiKey != "" && e.clients != nil
}

type lockedPicker struct {
	mu    sync.Mutex
	inner cognitive.IndexPicker
}

func (p *lockedPicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Intn(n)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
