// File: events.go
package captcha

import (
	"errors"
	"slices"
)

// ErrSurfaceUnavailable is reported when the surface never became ready
// within MaxRenderAttempts retries.
var ErrSurfaceUnavailable = errors.New("render surface not available")

type observers struct {
	generated       []func(Challenge, Kind)
	validated       []func(valid bool, userAnswer, correctAnswer string)
	validationError []func(ErrorKind, string)
	renderFailed    []func(Challenge, error)
}

// OnChallengeGenerated registers fn for every new challenge.
func (e *Engine) OnChallengeGenerated(fn func(ch Challenge, kind Kind)) {
	e.mu.Lock()
	e.obs.generated = append(e.obs.generated, fn)
	e.mu.Unlock()
}

// OnValidated registers fn for every validation that compared answers or
// accepted a blank.
func (e *Engine) OnValidated(fn func(valid bool, userAnswer, correctAnswer string)) {
	e.mu.Lock()
	e.obs.validated = append(e.obs.validated, fn)
	e.mu.Unlock()
}

// OnValidationError registers fn for blank and incorrect submissions.
func (e *Engine) OnValidationError(fn func(kind ErrorKind, message string)) {
	e.mu.Lock()
	e.obs.validationError = append(e.obs.validationError, fn)
	e.mu.Unlock()
}

// OnRenderFailed registers fn for pending renders that ran out of attempts.
func (e *Engine) OnRenderFailed(fn func(ch Challenge, err error)) {
	e.mu.Lock()
	e.obs.renderFailed = append(e.obs.renderFailed, fn)
	e.mu.Unlock()
}

// snapshot copies the handler lists so callbacks run without the lock and
// may call back into the engine.
func (e *Engine) snapshot() observers {
	e.mu.Lock()
	defer e.mu.Unlock()
	return observers{
		generated:       slices.Clone(e.obs.generated),
		validated:       slices.Clone(e.obs.validated),
		validationError: slices.Clone(e.obs.validationError),
		renderFailed:    slices.Clone(e.obs.renderFailed),
	}
}
