package world

import (
	"github.com/brentp/intintmap"
)

// Neighborhood9 holds nine chunk pointers in row-major 3×3 order around a
// center, index i = (dx+1) + (dy+1)*3, center at index 4. A nil entry means
// that neighbor is not loaded.
type Neighborhood9 [9]*Chunk

// Center returns the neighborhood's center chunk.
func (n Neighborhood9) Center() *Chunk { return n[4] }

// neighborOffsets is the row-major (dx, dy) ordering Neighborhood9 uses.
var neighborOffsets = [9][2]int32{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ChunkStore is the sparse keyed container of loaded chunks. The
// authoritative map is a plain Go map; intintmap backs a derived dense
// arena rebuilt on demand, used for the disjoint 9-way borrow the
// simulation scheduler needs on its hot path.
type ChunkStore struct {
	chunks map[ChunkId]*Chunk

	arena      []*Chunk
	index      *intintmap.Map
	arenaDirty bool
}

// NewChunkStore creates an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[ChunkId]*Chunk), arenaDirty: true}
}

// Insert adds chunk under its coord's id. It is the caller's responsibility
// to ensure coord isn't already present.
func (s *ChunkStore) Insert(coord ChunkCoord, chunk *Chunk) (ChunkId, error) {
	id, err := CoordToID(coord)
	if err != nil {
		return 0, err
	}
	s.chunks[id] = chunk
	s.arenaDirty = true
	return id, nil
}

// Remove deletes the chunk with the given id, if present.
func (s *ChunkStore) Remove(id ChunkId) {
	if _, ok := s.chunks[id]; ok {
		delete(s.chunks, id)
		s.arenaDirty = true
	}
}

// Get returns the chunk at coord, if loaded.
func (s *ChunkStore) Get(coord ChunkCoord) (*Chunk, bool) {
	id, err := CoordToID(coord)
	if err != nil {
		return nil, false
	}
	c, ok := s.chunks[id]
	return c, ok
}

// GetByID returns the chunk with the given id, if loaded.
func (s *ChunkStore) GetByID(id ChunkId) (*Chunk, bool) {
	c, ok := s.chunks[id]
	return c, ok
}

// Contains reports whether coord is loaded.
func (s *ChunkStore) Contains(coord ChunkCoord) bool {
	_, ok := s.Get(coord)
	return ok
}

// Len returns the number of loaded chunks.
func (s *ChunkStore) Len() int { return len(s.chunks) }

// Clear removes every chunk.
func (s *ChunkStore) Clear() {
	s.chunks = make(map[ChunkId]*Chunk)
	s.arenaDirty = true
}

// IDs returns every loaded chunk id. Order is unspecified.
func (s *ChunkStore) IDs() []ChunkId {
	ids := make([]ChunkId, 0, len(s.chunks))
	for id := range s.chunks {
		ids = append(ids, id)
	}
	return ids
}

// Range calls fn for every (id, chunk) pair. fn must not insert/remove.
func (s *ChunkStore) Range(fn func(id ChunkId, c *Chunk)) {
	for id, c := range s.chunks {
		fn(id, c)
	}
}

// rebuildArena refreshes the dense intintmap-backed index used by Borrow9.
// Called once before a simulation phase begins iterating; cheap relative to
// the kernel dispatch it guards.
func (s *ChunkStore) rebuildArena() {
	if !s.arenaDirty {
		return
	}
	n := len(s.chunks)
	s.arena = make([]*Chunk, n)
	s.index = intintmap.New(n+1, 0.75)
	i := int64(0)
	for id, c := range s.chunks {
		s.arena[i] = c
		s.index.Put(int64(id), i)
		i++
	}
	s.arenaDirty = false
}

// Borrow9 produces disjoint pointers to the 3×3 neighborhood around center.
// ok is false only if center itself isn't loaded; individual neighbor slots
// may be nil. Safe to call concurrently from multiple goroutines within one
// simulation phase, since the phase partitioning guarantees the sets of
// centers dispatched together never share a neighborhood, so the returned
// pointers are never aliased across concurrent callers.
func (s *ChunkStore) Borrow9(center ChunkCoord) (Neighborhood9, bool) {
	s.rebuildArena()
	var n Neighborhood9
	centerID, err := CoordToID(center)
	if err != nil {
		return n, false
	}
	slot, ok := s.index.Get(int64(centerID))
	if !ok {
		return n, false
	}
	n[4] = s.arena[slot]
	for i, off := range neighborOffsets {
		if i == 4 {
			continue
		}
		coord := ChunkCoord{X: center.X + off[0], Y: center.Y + off[1]}
		id, err := CoordToID(coord)
		if err != nil {
			continue
		}
		if slot, ok := s.index.Get(int64(id)); ok {
			n[i] = s.arena[slot]
		}
	}
	return n, true
}

// WithNeighbors implements the remove→process→reinsert idiom: it
// temporarily removes center from the store, gathers pointers to the
// (still-present) eight neighbors, calls fn, then reinserts center.
// Single-threaded only — it does not partition by phase, so concurrent
// callers could observe or mutate overlapping neighborhoods.
func (s *ChunkStore) WithNeighbors(center ChunkCoord, fn func(c *Chunk, neighbors Neighborhood9)) bool {
	id, err := CoordToID(center)
	if err != nil {
		return false
	}
	c, ok := s.chunks[id]
	if !ok {
		return false
	}
	delete(s.chunks, id)
	s.arenaDirty = true

	var n Neighborhood9
	for i, off := range neighborOffsets {
		if i == 4 {
			continue
		}
		coord := ChunkCoord{X: center.X + off[0], Y: center.Y + off[1]}
		if nc, ok := s.Get(coord); ok {
			n[i] = nc
		}
	}
	fn(c, n)

	s.chunks[id] = c
	s.arenaDirty = true
	return true
}
