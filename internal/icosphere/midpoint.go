package icosphere

// MidpointCache maps an unordered vertex pair to the index of its midpoint.
type MidpointCache struct {
	m map[uint64]int
}

// NewMidpointCache returns an empty cache.
func NewMidpointCache() *MidpointCache {
	return &MidpointCache{m: make(map[uint64]int)}
}

// pairKey packs the smaller index in the high half and the larger in the low
// half, so (a, b) and (b, a) share a key.
func pairKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// Get returns the cached midpoint index for the pair.
func (c *MidpointCache) Get(a, b int) (int, bool) {
	idx, ok := c.m[pairKey(a, b)]
	return idx, ok
}

// Put records the midpoint index for the pair.
func (c *MidpointCache) Put(a, b, idx int) {
	c.m[pairKey(a, b)] = idx
}

// Len returns the number of cached pairs.
func (c *MidpointCache) Len() int {
	return len(c.m)
}
