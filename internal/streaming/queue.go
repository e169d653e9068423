package streaming

import (
	"sync"

	"github.com/Faultbox/planetgen/internal/planet"
)

// readyQueue hands finished chunks from the worker to the presentation loop.
// Push never blocks on the consumer.
type readyQueue struct {
	mu      sync.Mutex
	pending []*planet.Chunk
}

func (q *readyQueue) Push(c *planet.Chunk) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, c)
}

// Drain removes up to max chunks in push order; max <= 0 takes them all.
func (q *readyQueue) Drain(max int) []*planet.Chunk {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	if max <= 0 || max >= len(q.pending) {
		batch := q.pending
		q.pending = nil
		return batch
	}
	batch := append([]*planet.Chunk(nil), q.pending[:max]...)
	q.pending = q.pending[max:]
	return batch
}

func (q *readyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
