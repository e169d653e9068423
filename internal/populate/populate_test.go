package populate

import (
	"context"
	"errors"
	stdmath "math"
	"math/rand"
	"slices"
	"testing"

	"github.com/Faultbox/planetgen/internal/chunk"
	"github.com/Faultbox/planetgen/internal/mesh"
	"github.com/Faultbox/planetgen/internal/noise"
	"github.com/Faultbox/planetgen/pkg/math"
)

const radius = 30

func testGrid(level int) chunk.Grid[mesh.Sample] {
	l := chunk.Subdivide(math.Vec3{X: radius}, math.Vec3{Y: radius}, math.Vec3{Z: radius}, level)
	return chunk.Map(l, func(p math.Vec3) mesh.Sample {
		dir := p.Normalize()
		h := 2 + 1.5*stdmath.Sin(9*dir.X+4*dir.Z)
		return mesh.Sample{Position: dir.Scale(radius + h), Height: h}
	})
}

func everywhere(prob float64) Rule {
	return Rule{Models: []string{"tree"}, MinHeight: -1000, MaxHeight: 1000, Probability: prob}
}

func sample(t *testing.T, seed int64, rules []Rule, p Params, grid chunk.Grid[mesh.Sample]) ([][]Placement, *rand.Rand) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	got, err := NewSampler(rng, seed, rules, p).Sample(context.Background(), grid)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	return got, rng
}

func TestProbabilityZeroNeverAccepts(t *testing.T) {
	got, _ := sample(t, 1, []Rule{everywhere(0)}, Params{Radius: radius}, testGrid(4))
	if len(got[0]) != 0 {
		t.Errorf("accepted %d placements with probability 0", len(got[0]))
	}
}

func TestProbabilityOneAcceptsEverything(t *testing.T) {
	grid := testGrid(4)
	got, _ := sample(t, 1, []Rule{everywhere(1)}, Params{Radius: radius}, grid)

	want := chunk.TriangleCount(grid.Divisions())
	if len(got[0]) != want {
		t.Errorf("accepted %d of %d candidates", len(got[0]), want)
	}
}

func TestAcceptanceRateFollowsProbability(t *testing.T) {
	grid := testGrid(5)
	got, _ := sample(t, 9, []Rule{everywhere(0.5)}, Params{Radius: radius}, grid)

	rate := float64(len(got[0])) / float64(chunk.TriangleCount(grid.Divisions()))
	if rate < 0.4 || rate > 0.6 {
		t.Errorf("acceptance rate %v, want about 0.5", rate)
	}
}

func TestSampleDeterministic(t *testing.T) {
	grid := testGrid(3)
	rules := []Rule{everywhere(0.3), {Models: []string{"a", "b", "c"}, MinHeight: 1, MaxHeight: 3, Probability: 0.8}}
	p := Params{Center: math.Vec3{X: 5}, Radius: radius}

	a, _ := sample(t, 42, rules, p, grid)
	b, _ := sample(t, 42, rules, p, grid)
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			t.Fatalf("rule %d differs between runs with the same seed", i)
		}
	}

	c, _ := sample(t, 43, rules, p, grid)
	if slices.Equal(a[0], c[0]) {
		t.Error("different seeds produced identical placements")
	}
}

func TestStreamAdvanceIndependentOfOutcome(t *testing.T) {
	grid := testGrid(3)
	_, never := sample(t, 7, []Rule{everywhere(0)}, Params{Radius: radius}, grid)
	_, always := sample(t, 7, []Rule{everywhere(1)}, Params{Radius: radius}, grid)

	if never.Int63() != always.Int63() {
		t.Error("stream position depends on which candidates were accepted")
	}
}

func TestHeightBand(t *testing.T) {
	grid := testGrid(4)
	rule := Rule{Models: []string{"rock"}, MinHeight: 2, MaxHeight: 3, Probability: 1}
	got, _ := sample(t, 3, []Rule{rule}, Params{Radius: radius}, grid)

	if len(got[0]) == 0 {
		t.Fatal("expected placements inside the band")
	}
	for _, pl := range got[0] {
		alt := pl.Position.Length() - radius
		if alt < 2-1e-9 || alt > 3+1e-9 {
			t.Errorf("placement at altitude %v outside [2, 3]", alt)
		}
	}
}

func TestNoiseGate(t *testing.T) {
	// A cutoff of 1 flattens the layer to zero everywhere.
	layer := noise.Layer{Octaves: 1, Persistence: 1, Lacunarity: 2, Scale: 1, MinHeight: 1, Multiplier: 1}
	field, err := noise.NewField(1, rand.New(rand.NewSource(1)), []noise.Layer{layer})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	rule := everywhere(1)
	rule.Noise = field
	got, _ := sample(t, 1, []Rule{rule}, Params{Radius: radius}, testGrid(3))
	if len(got[0]) != 0 {
		t.Errorf("accepted %d placements where the noise is never positive", len(got[0]))
	}
}

func TestTerracedSnapsToFloor(t *testing.T) {
	center := math.Vec3{Y: -4, Z: 2}
	got, _ := sample(t, 5, []Rule{everywhere(1)}, Params{Center: center, Radius: radius, Terraced: true}, testGrid(3))

	for _, pl := range got[0] {
		r := pl.Position.Sub(center).Length()
		if stdmath.Abs(r-stdmath.Round(r)) > 1e-9 {
			t.Fatalf("placement at radius %v, want an integer terrace", r)
		}
	}
}

func TestPlacementOrientationAndModel(t *testing.T) {
	center := math.Vec3{X: 1, Y: 2, Z: 3}
	rule := everywhere(1)
	rule.Models = []string{"pine", "oak"}
	got, _ := sample(t, 11, []Rule{rule}, Params{Center: center, Radius: radius}, testGrid(3))

	seen := map[string]bool{}
	for _, pl := range got[0] {
		seen[pl.Model] = true
		up := pl.Rotation.Rotate(math.Up)
		dir := pl.Position.Sub(center).Normalize()
		if !up.ApproxEqual(dir, 1e-9) {
			t.Fatalf("rotation maps up to %v, want %v", up, dir)
		}
	}
	if !seen["pine"] || !seen["oak"] || len(seen) != 2 {
		t.Errorf("models used = %v, want pine and oak", seen)
	}
}

func TestSampleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rng := rand.New(rand.NewSource(1))
	_, err := NewSampler(rng, 1, []Rule{everywhere(1)}, Params{Radius: radius}).Sample(ctx, testGrid(2))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
