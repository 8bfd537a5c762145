// File: engine.go
package captcha

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Engine owns exactly one live challenge and wires generation, rendering,
// validation and narration together for a host.
//
// Host collaborators (Surface, InputField, Speaker) are called while the
// engine holds its lock and must not call back into the engine. Observers
// run without the lock and may.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	log       *zap.Logger
	rnd       Random
	idFunc    func() string
	gen       *Generator
	renderer  *Renderer
	validator Validator

	surface Surface
	input   InputField
	speaker Speaker

	current Challenge
	pending *pendingRender
	wg      sync.WaitGroup
	closed  bool

	obs observers
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRandom injects the randomness source used for every draw.
func WithRandom(r Random) Option {
	return func(e *Engine) { e.rnd = r }
}

// WithSurface binds the drawing surface.
func WithSurface(s Surface) Option {
	return func(e *Engine) { e.surface = s }
}

// WithInput binds the answer input field.
func WithInput(f InputField) Option {
	return func(e *Engine) { e.input = f }
}

// WithSpeaker binds a text-to-speech backend.
func WithSpeaker(s Speaker) Option {
	return func(e *Engine) { e.speaker = s }
}

// WithIDFunc replaces the challenge id generator (uuid by default).
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.idFunc = fn }
}

// New builds an engine and generates its first challenge.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = NewRandom(0)
	}

	cfg = cfg.Normalized()
	if !cfg.Type.Valid() {
		e.log.Warn("invalid captcha type, using alphanumeric", zap.String("type", string(cfg.Type)))
		cfg.Type = KindAlphanumeric
	}
	e.cfg = cfg

	e.gen = NewGenerator(e.rnd, e.log)
	if e.idFunc != nil {
		e.gen.newID = e.idFunc
	}
	e.renderer = NewRenderer(e.rnd, e.log)

	e.GenerateChallenge()
	return e
}

// GenerateChallenge replaces the live challenge, clears the bound input and
// renders. A pending render for the previous challenge is cancelled.
func (e *Engine) GenerateChallenge() Challenge {
	e.mu.Lock()
	e.cancelPendingLocked()
	ch := e.gen.Generate(e.cfg.Type, e.cfg.Params())
	e.current = ch
	if e.input != nil {
		e.input.SetValue("")
		e.input.ClearInvalid()
	}
	e.renderLocked()
	e.mu.Unlock()

	for _, fn := range e.snapshot().generated {
		fn(ch, ch.Kind)
	}
	return ch
}

// Render redraws the live challenge. It returns false when the surface is
// missing or not ready; in the latter case a pending render is scheduled.
func (e *Engine) Render() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPendingLocked()
	return e.renderLocked()
}

func (e *Engine) renderLocked() bool {
	if e.surface == nil {
		return false
	}
	if e.renderer.Render(e.surface, e.current, e.cfg.RenderConfig()) {
		return true
	}
	e.schedulePendingLocked()
	return false
}

// Validate judges answer against the live challenge and notifies observers.
func (e *Engine) Validate(answer string) ValidationResult {
	e.mu.Lock()
	res := e.validator.Validate(e.cfg.Policy(), e.current.Answer, answer, e.input)
	e.mu.Unlock()

	e.notifyValidation(res)
	return res
}

// ValidateInput validates whatever the bound input holds. Without a bound
// input the submission is empty.
func (e *Engine) ValidateInput() ValidationResult {
	e.mu.Lock()
	var answer string
	if e.input != nil {
		answer = e.input.Value()
	}
	res := e.validator.Validate(e.cfg.Policy(), e.current.Answer, answer, e.input)
	e.mu.Unlock()

	e.notifyValidation(res)
	return res
}

func (e *Engine) notifyValidation(res ValidationResult) {
	e.log.Debug("validated answer", zap.Stringer("outcome", res.Outcome))
	obs := e.snapshot()
	switch res.Outcome {
	case OutcomeBlank:
		for _, fn := range obs.validationError {
			fn(ErrorBlank, res.Message)
		}
	case OutcomeIncorrect:
		for _, fn := range obs.validationError {
			fn(ErrorIncorrect, res.Message)
		}
		for _, fn := range obs.validated {
			fn(false, res.Submitted, res.Expected)
		}
	case OutcomeValid:
		for _, fn := range obs.validated {
			fn(true, res.Submitted, res.Expected)
		}
	}
}

// PlayAudio speaks the live challenge through the bound Speaker.
func (e *Engine) PlayAudio(ctx context.Context) error {
	e.mu.Lock()
	enabled, sp, ch := e.cfg.EnableAudio, e.speaker, e.current
	e.mu.Unlock()

	if !enabled {
		return ErrAudioDisabled
	}
	if sp == nil {
		e.log.Info("speech synthesis not available")
		return ErrSpeechUnavailable
	}
	if err := sp.Speak(ctx, newUtterance(ch)); err != nil {
		return fmt.Errorf("speak challenge %s: %w", ch.ID, err)
	}
	return nil
}

// SpeechText returns the narration of the live challenge.
func (e *Engine) SpeechText() string {
	return SpeechText(e.Current())
}

// Current returns the live challenge.
func (e *Engine) Current() Challenge {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Challenge returns the text shown to the user.
func (e *Engine) Challenge() string { return e.Current().DisplayText }

// Answer returns the canonical answer.
func (e *Engine) Answer() string { return e.Current().Answer }

// HasChallenge reports whether a challenge with text and answer is live.
func (e *Engine) HasChallenge() bool {
	ch := e.Current()
	return ch.DisplayText != "" && ch.Answer != ""
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Type returns the configured puzzle family.
func (e *Engine) Type() Kind { return e.Config().Type }

// SetType switches the puzzle family and generates a new challenge.
// Unknown kinds are ignored.
func (e *Engine) SetType(k Kind) {
	if !k.Valid() {
		e.log.Warn("ignoring invalid captcha type", zap.String("type", string(k)))
		return
	}
	e.mu.Lock()
	e.cfg = e.cfg.WithType(k)
	e.mu.Unlock()
	e.GenerateChallenge()
}

// SetCaseSensitive takes effect on the next validation.
func (e *Engine) SetCaseSensitive(v bool) {
	e.mu.Lock()
	e.cfg = e.cfg.WithCaseSensitive(v)
	e.mu.Unlock()
}

// SetAllowBlank takes effect on the next validation.
func (e *Engine) SetAllowBlank(v bool) {
	e.mu.Lock()
	e.cfg = e.cfg.WithAllowBlank(v)
	e.mu.Unlock()
}

// AllowBlank reports whether blank submissions pass.
func (e *Engine) AllowBlank() bool { return e.Config().AllowBlank }

// SetBlankMessage takes effect on the next validation. An empty message
// restores the default.
func (e *Engine) SetBlankMessage(msg string) {
	e.mu.Lock()
	e.cfg = e.cfg.WithBlankMessage(msg).Normalized()
	e.mu.Unlock()
}

// UserAnswer returns the trimmed content of the bound input.
func (e *Engine) UserAnswer() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.input == nil {
		return ""
	}
	return strings.TrimSpace(e.input.Value())
}

// SetUserAnswer writes to the bound input.
func (e *Engine) SetUserAnswer(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.input != nil {
		e.input.SetValue(v)
	}
}

// MarkInvalid flags the bound input with msg.
func (e *Engine) MarkInvalid(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.input != nil {
		e.input.MarkInvalid(msg)
	}
}

// ClearInvalid removes the invalid flag from the bound input.
func (e *Engine) ClearInvalid() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.input != nil {
		e.input.ClearInvalid()
	}
}

// Close cancels any pending render and waits for it to exit.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.cancelPendingLocked()
	e.mu.Unlock()
	e.wg.Wait()
}
