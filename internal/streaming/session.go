// Package streaming runs planet generation in the background and hands
// finished chunks to a presentation loop that shows or hides them around a
// viewer.
package streaming

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/internal/config"
	"github.com/Faultbox/planetgen/internal/logger"
	"github.com/Faultbox/planetgen/internal/planet"
)

var (
	// ErrGenerationStarted is returned when planets are submitted after
	// generation began.
	ErrGenerationStarted = errors.New("streaming: generation already started")
	// ErrShutdown is returned by calls made after Shutdown.
	ErrShutdown = errors.New("streaming: session shut down")
)

// State is the lifecycle stage of a Session.
type State int32

const (
	Idle State = iota
	Generating
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Options configures a Session.
type Options struct {
	// ViewDistance is compared against distances between unit directions.
	ViewDistance float64
	// MaxInstantiatePerTick caps chunks instantiated per drain; 0 means no cap.
	MaxInstantiatePerTick int
	// SeedSource draws seeds for planets that ask for a random one. Defaults
	// to math/rand's global source.
	SeedSource func() int64
	Logger     *zap.Logger
}

// Session owns one generation run: the planet list, the background worker
// and the ready queue. Submit and StartGeneration may be called from any
// goroutine; DrainReadyQueue and UpdateVisibility belong to the single
// presentation goroutine.
type Session struct {
	opts      Options
	log       *zap.Logger
	presenter Presenter

	// ctl serializes lifecycle transitions. It is never held while
	// generating, so Submit, StartGeneration and Shutdown return promptly.
	ctl    sync.Mutex
	cancel context.CancelFunc

	// mu guards planets. The worker holds it for its entire pass.
	mu      sync.Mutex
	planets []*planet.Planet
	// frozen is the planet list as of StartGeneration, read without locking
	// once the state has left Idle.
	frozen []*planet.Planet

	state    atomic.Int32
	shutdown atomic.Bool
	ready    readyQueue
	done     chan struct{}
	err      error // worker failure, readable after done

	tracked []*entry
}

// New returns an idle session presenting chunks through p.
func New(p Presenter, opts Options) *Session {
	if opts.SeedSource == nil {
		opts.SeedSource = rand.Int63
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("streaming")
	}
	return &Session{
		opts:      opts,
		log:       log,
		presenter: p,
		done:      make(chan struct{}),
	}
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Submit validates cfg, resolves its seed and adds the planet. It returns the
// planet's index. Nothing is generated until StartGeneration.
func (s *Session) Submit(cfg config.Planet) (int, error) {
	if s.shutdown.Load() {
		return 0, ErrShutdown
	}
	if s.State() != Idle {
		return 0, ErrGenerationStarted
	}

	if cfg.UseRandomSeed {
		cfg.Seed = s.opts.SeedSource()
	}
	p, err := planet.New(cfg)
	if err != nil {
		return 0, err
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.State() != Idle {
		return 0, ErrGenerationStarted
	}
	s.mu.Lock()
	s.planets = append(s.planets, p)
	n := len(s.planets)
	s.mu.Unlock()

	s.log.Info("planet submitted",
		zap.String("planet", p.Name),
		zap.Int64("seed", p.Seed),
		zap.Stringer("style", p.Style),
		zap.Int("chunks", p.ChunkCount()))
	return n - 1, nil
}

// SubmitAll submits every planet in order, stopping at the first error.
func (s *Session) SubmitAll(cfgs []config.Planet) error {
	for _, cfg := range cfgs {
		if _, err := s.Submit(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Planets returns the submitted planets in index order.
func (s *Session) Planets() []*planet.Planet {
	if s.State() != Idle {
		return s.frozen
	}
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.State() != Idle {
		return s.frozen
	}
	return slices.Clone(s.planets)
}

// TotalChunks returns the number of chunks the submitted planets produce.
func (s *Session) TotalChunks() int {
	return totalChunks(s.Planets())
}

func totalChunks(planets []*planet.Planet) int {
	var n int
	for _, p := range planets {
		n += p.ChunkCount()
	}
	return n
}

// StartGeneration launches the background pass. Only the first call has an
// effect; later calls return nil. Canceling ctx or calling Shutdown stops
// the pass between work units.
func (s *Session) StartGeneration(ctx context.Context) error {
	if s.shutdown.Load() {
		return ErrShutdown
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.State() != Idle {
		return nil
	}
	s.frozen = slices.Clone(s.planets)
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state.Store(int32(Generating))

	s.log.Info("generation started",
		zap.Int("planets", len(s.frozen)),
		zap.Int("chunks", totalChunks(s.frozen)))

	go s.run(ctx, cancel)
	return nil
}

// run is the background pass over every planet's pipeline.
func (s *Session) run(ctx context.Context, cancel context.CancelFunc) {
	defer close(s.done)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	for idx, p := range s.planets {
		p.BuildSphere()
		for i := 0; i < p.ChunkCount(); i++ {
			if s.stopping(ctx) {
				s.log.Info("generation abandoned", zap.String("planet", p.Name), zap.Int("chunk", i))
				return
			}

			c, err := p.GenerateChunk(ctx, i)
			if err != nil {
				if ctx.Err() != nil {
					s.log.Info("generation abandoned", zap.String("planet", p.Name), zap.Int("chunk", i))
					return
				}
				s.err = err
				s.log.Error("chunk generation failed", zap.String("planet", p.Name), zap.Int("chunk", i), zap.Error(err))
				return
			}
			if s.stopping(ctx) {
				return
			}

			c.Planet = idx
			s.ready.Push(c)
			s.log.Debug("chunk published",
				zap.String("planet", p.Name),
				zap.Int("chunk", i),
				zap.Int("triangles", c.Land.TriangleCount()),
				zap.Int("placements", c.PlacementCount()))
		}
		s.log.Info("planet generated", zap.String("planet", p.Name))
	}

	s.state.Store(int32(Ready))
	s.log.Info("generation finished")
}

func (s *Session) stopping(ctx context.Context) bool {
	return s.shutdown.Load() || ctx.Err() != nil
}

// Shutdown stops the background pass. Chunks already queued stay drainable;
// no further chunk is published. It does not wait; use Wait for that.
func (s *Session) Shutdown() {
	if s.shutdown.Swap(true) {
		return
	}
	s.ctl.Lock()
	cancel := s.cancel
	s.ctl.Unlock()
	if cancel != nil {
		cancel()
	}
	s.log.Info("session shutting down")
}

// Done is closed when the background pass exits for any reason. It never
// closes for a session that was not started.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the background pass exits, or returns at once when it
// was never started. It returns the worker's failure, if any.
func (s *Session) Wait() error {
	if s.State() == Idle {
		return nil
	}
	<-s.done
	return s.err
}
