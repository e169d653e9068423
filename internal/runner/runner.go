// Package runner drives the presentation side of a streaming session at a
// fixed tick rate: it moves the viewer, drains the ready queue and refreshes
// chunk visibility.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/internal/camera"
	"github.com/Faultbox/planetgen/internal/logger"
	"github.com/Faultbox/planetgen/internal/streaming"
)

// Summary describes a finished run.
type Summary struct {
	Ticks   int
	Elapsed time.Duration
	Shown   int
	Stats   streaming.Stats
}

// Runner owns the tick loop.
type Runner struct {
	session *streaming.Session
	camera  *camera.Orbit
	tick    time.Duration
	log     *zap.Logger
}

// New creates a runner ticking tickRateHz times per second.
func New(session *streaming.Session, cam *camera.Orbit, tickRateHz float64) (*Runner, error) {
	if session == nil {
		return nil, errors.New("runner: nil session")
	}
	if cam == nil {
		return nil, errors.New("runner: nil camera")
	}
	if tickRateHz <= 0 {
		return nil, fmt.Errorf("runner: tick rate must be > 0, got %v", tickRateHz)
	}
	return &Runner{
		session: session,
		camera:  cam,
		tick:    time.Duration(float64(time.Second) / tickRateHz),
		log:     logger.Named("runner"),
	}, nil
}

// Run ticks until the background pass has exited and every queued chunk has
// been presented, or until ctx is done. A canceled run returns ctx.Err(); a
// finished run returns the generation error, if any.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	// Timing
	start := time.Now()
	lastTime := start
	tickCount := 0
	statsTimer := start

	var sum Summary
	r.log.Info("starting tick loop", zap.Duration("tick", r.tick))

	for {
		select {
		case <-ctx.Done():
			sum.Elapsed = time.Since(start)
			sum.Stats = r.session.Stats()
			return sum, ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now

			done := r.step(dt, &sum)

			// Per-second stats
			tickCount++
			if now.Sub(statsTimer) >= time.Second {
				st := r.session.Stats()
				r.log.Debug("tick stats",
					zap.Int("ticks", tickCount),
					zap.String("state", st.State.String()),
					zap.Int("queued", st.Queued),
					zap.Int("tracked", st.Tracked),
					zap.Int("shown", st.Shown))
				tickCount = 0
				statsTimer = now
			}

			if done {
				sum.Elapsed = time.Since(start)
				sum.Stats = r.session.Stats()
				r.log.Info("tick loop finished",
					zap.Int("ticks", sum.Ticks),
					zap.Duration("elapsed", sum.Elapsed),
					zap.Int("shown", sum.Shown))
				return sum, r.session.Wait()
			}
		}
	}
}

// step runs one tick and reports whether the run is complete. Completion is
// judged on the state seen before this tick's drain, so the last tick always
// includes a visibility pass made after generation finished.
func (r *Runner) step(dt float64, sum *Summary) bool {
	sum.Ticks++

	// A failed or abandoned pass never reaches Ready, but its worker exits.
	finished := r.session.State() == streaming.Ready
	select {
	case <-r.session.Done():
		finished = true
	default:
	}

	r.camera.Advance(dt)
	r.session.DrainReadyQueue()
	sum.Shown = r.session.UpdateVisibility(r.camera.Position())

	return finished && r.session.Stats().Queued == 0
}
