// Package scene is a headless stand-in for a renderer. It keeps the chunk
// objects a real scene graph would own and tracks what is visible, so the
// streaming loop can be run and measured without a GPU.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/internal/logger"
	"github.com/Faultbox/planetgen/internal/mesh"
	"github.com/Faultbox/planetgen/internal/planet"
	"github.com/Faultbox/planetgen/internal/streaming"
	"github.com/Faultbox/planetgen/pkg/math"
)

// ErrDuplicate is returned when a chunk is instantiated twice.
var ErrDuplicate = errors.New("scene: chunk already instantiated")

type key struct {
	planet  string
	polygon int
}

// Instance is one placed decorative model.
type Instance struct {
	Model     string
	Transform math.Mat4
}

// Object is the scene-side representation of one chunk.
type Object struct {
	Planet      string
	Polygon     int
	Land        *mesh.Data
	Sea         *mesh.Data
	Material    string
	SeaMaterial string
	Transform   math.Mat4
	Instances   []Instance

	active bool
	scene  *Scene
}

// SetActive shows or hides the object.
func (o *Object) SetActive(active bool) {
	if o.active == active {
		return
	}
	o.active = active
	if active {
		o.scene.active++
	} else {
		o.scene.active--
	}
}

// Active reports whether the object is shown.
func (o *Object) Active() bool {
	return o.active
}

// Stats summarizes the scene.
type Stats struct {
	Objects   int
	Active    int
	Triangles int // land and sea triangles of active objects
	Instances int // decorative instances on active objects
	Materials int
}

// Scene owns instantiated chunk objects. It is not safe for concurrent use;
// it belongs to the presentation loop.
type Scene struct {
	log       *zap.Logger
	objects   map[key]*Object
	order     []*Object
	materials map[string]int
	active    int
}

// New creates an empty scene. A nil logger uses the package logger.
func New(log *zap.Logger) *Scene {
	if log == nil {
		log = logger.Named("scene")
	}
	return &Scene{
		log:       log,
		objects:   make(map[key]*Object),
		materials: make(map[string]int),
	}
}

// Instantiate validates a bundle and creates its object.
func (s *Scene) Instantiate(b planet.Bundle) (streaming.Object, error) {
	k := key{b.Planet, b.Polygon}
	if _, ok := s.objects[k]; ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrDuplicate, b.Planet, b.Polygon)
	}
	if err := checkMesh(b.Land, true); err != nil {
		return nil, fmt.Errorf("scene: %s/%d land: %w", b.Planet, b.Polygon, err)
	}
	if err := checkMesh(b.Sea, false); err != nil {
		return nil, fmt.Errorf("scene: %s/%d sea: %w", b.Planet, b.Polygon, err)
	}

	o := &Object{
		Planet:      b.Planet,
		Polygon:     b.Polygon,
		Land:        b.Land,
		Sea:         b.Sea,
		Material:    b.Material,
		SeaMaterial: b.SeaMaterial,
		Transform:   b.Anchor,
		scene:       s,
	}
	for _, rule := range b.Placements {
		for _, pl := range rule {
			o.Instances = append(o.Instances, Instance{
				Model:     pl.Model,
				Transform: math.TRS(pl.Position, pl.Rotation),
			})
		}
	}

	s.objects[k] = o
	s.order = append(s.order, o)
	s.materials[b.Material]++
	if b.Sea != nil {
		s.materials[b.SeaMaterial]++
	}

	s.log.Debug("chunk instantiated",
		zap.String("planet", b.Planet),
		zap.Int("chunk", b.Polygon),
		zap.Int("instances", len(o.Instances)))
	return o, nil
}

// checkMesh verifies index ranges and color counts. A nil mesh is accepted
// unless required.
func checkMesh(d *mesh.Data, required bool) error {
	if d == nil {
		if required {
			return errors.New("missing mesh")
		}
		return nil
	}
	if len(d.Triangles)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(d.Triangles))
	}
	if len(d.Colors) != 0 && len(d.Colors) != len(d.Vertices) {
		return fmt.Errorf("%d colors for %d vertices", len(d.Colors), len(d.Vertices))
	}
	for _, idx := range d.Triangles {
		if int(idx) >= len(d.Vertices) {
			return fmt.Errorf("index %d out of range (%d vertices)", idx, len(d.Vertices))
		}
	}
	return nil
}

// Object returns the object for a chunk, if instantiated.
func (s *Scene) Object(planetName string, polygon int) (*Object, bool) {
	o, ok := s.objects[key{planetName, polygon}]
	return o, ok
}

// Objects returns every object in instantiation order.
func (s *Scene) Objects() []*Object {
	return s.order
}

// Stats computes the current scene summary.
func (s *Scene) Stats() Stats {
	st := Stats{Objects: len(s.order), Active: s.active, Materials: len(s.materials)}
	for _, o := range s.order {
		if !o.active {
			continue
		}
		st.Triangles += o.Land.TriangleCount()
		if o.Sea != nil {
			st.Triangles += o.Sea.TriangleCount()
		}
		st.Instances += len(o.Instances)
	}
	return st
}

// Bounds returns the box around the land of every active object, and false
// when nothing is shown.
func (s *Scene) Bounds() (mesh.Bounds, bool) {
	var b mesh.Bounds
	found := false
	for _, o := range s.order {
		if !o.active || o.Land.Empty() {
			continue
		}
		if !found {
			b = o.Land.Bounds
			found = true
			continue
		}
		b.Min = math.Vec3{X: min(b.Min.X, o.Land.Bounds.Min.X), Y: min(b.Min.Y, o.Land.Bounds.Min.Y), Z: min(b.Min.Z, o.Land.Bounds.Min.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, o.Land.Bounds.Max.X), Y: max(b.Max.Y, o.Land.Bounds.Max.Y), Z: max(b.Max.Z, o.Land.Bounds.Max.Z)}
	}
	return b, found
}
