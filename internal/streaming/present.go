package streaming

import (
	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/internal/planet"
	"github.com/Faultbox/planetgen/pkg/math"
)

// Object is a renderer-side chunk that can be shown or hidden.
type Object interface {
	SetActive(active bool)
}

// Presenter turns chunk bundles into renderer objects.
type Presenter interface {
	Instantiate(b planet.Bundle) (Object, error)
}

// entry is a chunk owned by the presentation loop.
type entry struct {
	chunk *planet.Chunk
	obj   Object // nil until instantiated
	shown bool
}

// Stats is a snapshot of presentation state.
type Stats struct {
	State        State
	Queued       int
	Tracked      int
	Instantiated int
	Shown        int
}

// DrainReadyQueue moves queued chunks into the tracked list, instantiating
// each, and returns how many it took. It never blocks and stops early once
// MaxInstantiatePerTick chunks were taken. New objects start hidden.
func (s *Session) DrainReadyQueue() int {
	if s.State() == Idle {
		return 0
	}

	batch := s.ready.Drain(s.opts.MaxInstantiatePerTick)
	for _, c := range batch {
		e := &entry{chunk: c}
		s.instantiate(e)
		s.tracked = append(s.tracked, e)
	}
	return len(batch)
}

// instantiate hands e to the presenter. A failure leaves e without an object
// so the next show retries.
func (s *Session) instantiate(e *entry) bool {
	p := s.frozen[e.chunk.Planet]
	obj, err := s.presenter.Instantiate(p.Bundle(e.chunk))
	if err != nil {
		s.log.Warn("instantiate failed",
			zap.String("planet", p.Name),
			zap.Int("chunk", e.chunk.Polygon),
			zap.Error(err))
		return false
	}
	obj.SetActive(false)
	e.obj = obj
	return true
}

// UpdateVisibility shows every tracked chunk with a corner within the view
// distance of viewer and hides the rest. viewer is a world position; each
// chunk compares against the viewer's direction from its own planet's
// center. It does nothing until generation has finished and returns the
// number of chunks shown.
func (s *Session) UpdateVisibility(viewer math.Vec3) int {
	if s.State() != Ready {
		return 0
	}

	dirs := make([]math.Vec3, len(s.frozen))
	for i, p := range s.frozen {
		dirs[i] = p.ViewDirection(viewer)
	}

	shown := 0
	for _, e := range s.tracked {
		visible := e.chunk.Visible(dirs[e.chunk.Planet], s.opts.ViewDistance)
		if visible == e.shown {
			if visible {
				shown++
			}
			continue
		}
		if e.obj == nil && !s.instantiate(e) {
			continue
		}
		e.obj.SetActive(visible)
		e.shown = visible
		if visible {
			shown++
		}
	}
	return shown
}

// Stats reports the presentation state. Like DrainReadyQueue it belongs to
// the presentation goroutine.
func (s *Session) Stats() Stats {
	st := Stats{State: s.State(), Tracked: len(s.tracked)}
	if st.State != Idle {
		st.Queued = s.ready.Len()
	}
	for _, e := range s.tracked {
		if e.obj != nil {
			st.Instantiated++
		}
		if e.shown {
			st.Shown++
		}
	}
	return st
}
