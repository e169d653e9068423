package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/internal/camera"
	"github.com/Faultbox/planetgen/internal/config"
	"github.com/Faultbox/planetgen/internal/scene"
	"github.com/Faultbox/planetgen/internal/streaming"
	"github.com/Faultbox/planetgen/pkg/math"
)

func smallPlanet(subdivisions int) config.Planet {
	return config.Planet{
		Name:              "small",
		Seed:              21,
		Radius:            10,
		SeaLevel:          1,
		Subdivisions:      subdivisions,
		ChunkSubdivisions: 1,
		Material:          "ground",
		NoiseLayers: []config.NoiseLayer{
			{Octaves: 1, Persistence: 0.5, Lacunarity: 2, Scale: 4, HeightMultiplier: 3},
		},
	}
}

func newRunner(t *testing.T, opts streaming.Options, p config.Planet) (*Runner, *streaming.Session, *scene.Scene) {
	t.Helper()
	sc := scene.New(zap.NewNop())
	opts.Logger = zap.NewNop()
	s := streaming.New(sc, opts)
	if _, err := s.Submit(p); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	t.Cleanup(func() {
		s.Shutdown()
		s.Wait()
	})

	cam := camera.NewOrbit(math.Vec3{}, p.Radius, 1.5, 0.5)
	r, err := New(s, cam, 500)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, s, sc
}

func TestNewRejectsBadArguments(t *testing.T) {
	s := streaming.New(scene.New(zap.NewNop()), streaming.Options{Logger: zap.NewNop()})
	cam := camera.NewOrbit(math.Vec3{}, 1, 2, 0)

	if _, err := New(nil, cam, 30); err == nil {
		t.Error("expected error for nil session")
	}
	if _, err := New(s, nil, 30); err == nil {
		t.Error("expected error for nil camera")
	}
	for _, hz := range []float64{0, -5} {
		if _, err := New(s, cam, hz); err == nil {
			t.Errorf("expected error for tick rate %v", hz)
		}
	}
}

func TestRunPresentsEveryChunk(t *testing.T) {
	r, s, sc := newRunner(t, streaming.Options{ViewDistance: 2, MaxInstantiatePerTick: 5}, smallPlanet(1))
	if err := s.StartGeneration(context.Background()); err != nil {
		t.Fatalf("StartGeneration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Stats.State != streaming.Ready {
		t.Errorf("state = %v, want ready", sum.Stats.State)
	}
	if sum.Stats.Queued != 0 || sum.Stats.Tracked != 80 {
		t.Errorf("unexpected stats %+v", sum.Stats)
	}
	if sum.Shown != 80 || sc.Stats().Active != 80 {
		t.Errorf("shown = %d, active = %d, want 80", sum.Shown, sc.Stats().Active)
	}
	// 80 chunks at 5 per tick need at least 16 ticks.
	if sum.Ticks < 16 {
		t.Errorf("ticks = %d, want >= 16", sum.Ticks)
	}
}

func TestRunEndsWithVisibilityPass(t *testing.T) {
	for i := range 25 {
		r, s, _ := newRunner(t, streaming.Options{ViewDistance: 2}, smallPlanet(0))
		if err := s.StartGeneration(context.Background()); err != nil {
			t.Fatalf("StartGeneration: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		sum, err := r.Run(ctx)
		cancel()
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if sum.Shown != 20 {
			t.Fatalf("run %d: shown = %d, want 20", i, sum.Shown)
		}
	}
}

func TestStepFinishesOnlyAfterReadyTick(t *testing.T) {
	r, s, _ := newRunner(t, streaming.Options{ViewDistance: 2}, smallPlanet(0))
	if err := s.StartGeneration(context.Background()); err != nil {
		t.Fatalf("StartGeneration: %v", err)
	}
	select {
	case <-s.Done():
	case <-time.After(30 * time.Second):
		t.Fatal("generation did not finish")
	}

	var sum Summary
	if !r.step(0.01, &sum) {
		t.Fatal("step after ready with an empty queue should finish")
	}
	if sum.Shown != 20 {
		t.Errorf("shown = %d, want 20", sum.Shown)
	}
}

func TestRunShowsOnlyNearChunks(t *testing.T) {
	r, s, sc := newRunner(t, streaming.Options{ViewDistance: 0.5}, smallPlanet(1))
	if err := s.StartGeneration(context.Background()); err != nil {
		t.Fatalf("StartGeneration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Shown == 0 || sum.Shown >= 80 {
		t.Errorf("shown = %d, want a strict subset of 80", sum.Shown)
	}
	if got := sc.Stats().Active; got != sum.Shown {
		t.Errorf("scene active = %d, summary shown = %d", got, sum.Shown)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	// Never started, so the loop only ends through ctx.
	r, _, _ := newRunner(t, streaming.Options{ViewDistance: 2}, smallPlanet(0))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sum, err := r.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run error = %v, want deadline exceeded", err)
	}
	if sum.Stats.State != streaming.Idle || sum.Shown != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestStepAdvancesCamera(t *testing.T) {
	r, _, _ := newRunner(t, streaming.Options{ViewDistance: 2}, smallPlanet(0))
	before := r.camera.Position()

	var sum Summary
	if r.step(0.5, &sum) {
		t.Error("step reported completion before generation started")
	}
	if sum.Ticks != 1 {
		t.Errorf("ticks = %d, want 1", sum.Ticks)
	}
	if r.camera.Position().ApproxEqual(before, 1e-9) {
		t.Error("camera did not move")
	}
}

func TestRunEndsAfterAbandonedGeneration(t *testing.T) {
	p := smallPlanet(5)
	p.ChunkSubdivisions = 3
	r, s, _ := newRunner(t, streaming.Options{ViewDistance: 2}, p)
	if err := s.StartGeneration(context.Background()); err != nil {
		t.Fatalf("StartGeneration: %v", err)
	}
	s.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Stats.State == streaming.Ready {
		t.Error("abandoned pass reported ready")
	}
	if sum.Stats.Queued != 0 {
		t.Errorf("queued = %d after run", sum.Stats.Queued)
	}
	if sum.Stats.Tracked >= 20*4*4*4*4*4 {
		t.Errorf("tracked = %d, expected the pass to stop early", sum.Stats.Tracked)
	}
}
