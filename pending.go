// File: pending.go
package captcha

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// pendingRender retries a render until the surface mounts. It is tied to
// one challenge id and dies quietly once that challenge is replaced.
type pendingRender struct {
	challengeID string
	cancel      context.CancelFunc
}

func (e *Engine) schedulePendingLocked() {
	if e.closed {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &pendingRender{challengeID: e.current.ID, cancel: cancel}
	e.pending = p
	e.log.Debug("surface not ready, render pending", zap.String("challenge_id", p.challengeID))

	delay, attempts := e.cfg.RetryDelay, e.cfg.MaxRenderAttempts
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		e.retryRender(ctx, p, delay, attempts)
	}()
}

func (e *Engine) cancelPendingLocked() {
	if e.pending != nil {
		e.pending.cancel()
		e.pending = nil
	}
}

func (e *Engine) retryRender(ctx context.Context, p *pendingRender, delay time.Duration, attempts int) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		e.mu.Lock()
		if ctx.Err() != nil || e.current.ID != p.challengeID {
			e.mu.Unlock()
			e.log.Debug("pending render superseded", zap.String("challenge_id", p.challengeID))
			return
		}
		ok := e.renderer.Render(e.surface, e.current, e.cfg.RenderConfig())
		if ok && e.pending == p {
			e.pending = nil
		}
		e.mu.Unlock()

		if ok {
			e.log.Debug("pending render done", zap.String("challenge_id", p.challengeID), zap.Int("attempt", attempt))
			return
		}
		timer.Reset(delay)
	}

	e.mu.Lock()
	if ctx.Err() != nil || e.current.ID != p.challengeID {
		e.mu.Unlock()
		return
	}
	if e.pending == p {
		e.pending = nil
	}
	ch := e.current
	e.mu.Unlock()

	e.log.Warn("render surface never became ready",
		zap.String("challenge_id", ch.ID),
		zap.Int("attempts", attempts))
	err := fmt.Errorf("challenge %s after %d attempts: %w", ch.ID, attempts, ErrSurfaceUnavailable)
	for _, fn := range e.snapshot().renderFailed {
		fn(ch, err)
	}
}
