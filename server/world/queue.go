package world

// LoadQueue is a dedup FIFO of chunk coordinates awaiting instantiation.
// Invariant: no duplicates, and no coord currently present in a ChunkStore
// the owner checks against.
type LoadQueue struct {
	order  []ChunkCoord
	queued map[ChunkCoord]struct{}
}

// NewLoadQueue creates an empty queue.
func NewLoadQueue() *LoadQueue {
	return &LoadQueue{queued: make(map[ChunkCoord]struct{})}
}

// Enqueue appends coord if it isn't already queued, returning false if it
// was a duplicate. Callers are responsible for checking the coord isn't
// already loaded before calling.
func (q *LoadQueue) Enqueue(coord ChunkCoord) bool {
	if _, ok := q.queued[coord]; ok {
		return false
	}
	q.queued[coord] = struct{}{}
	q.order = append(q.order, coord)
	return true
}

// Pop removes and returns the oldest queued coord.
func (q *LoadQueue) Pop() (ChunkCoord, bool) {
	if len(q.order) == 0 {
		return ChunkCoord{}, false
	}
	c := q.order[0]
	q.order = q.order[1:]
	delete(q.queued, c)
	return c, true
}

// Len returns the number of queued coords.
func (q *LoadQueue) Len() int { return len(q.order) }

// Contains reports whether coord is currently queued.
func (q *LoadQueue) Contains(coord ChunkCoord) bool {
	_, ok := q.queued[coord]
	return ok
}
