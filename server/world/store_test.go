package world

import "testing"

func TestChunkStoreInsertGetRemove(t *testing.T) {
	s := NewChunkStore()
	coord := ChunkCoord{X: 3, Y: -5}
	id, err := s.Insert(coord, newChunk(coord))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !s.Contains(coord) {
		t.Fatalf("expected store to contain %v", coord)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	c, ok := s.GetByID(id)
	if !ok || c.Coord() != coord {
		t.Fatalf("GetByID returned wrong chunk")
	}
	s.Remove(id)
	if s.Contains(coord) {
		t.Fatalf("expected store to no longer contain %v", coord)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after remove", s.Len())
	}
}

func TestChunkStoreBorrow9Disjoint(t *testing.T) {
	s := NewChunkStore()
	for x := int32(-1); x <= 1; x++ {
		for y := int32(-1); y <= 1; y++ {
			c := ChunkCoord{X: x, Y: y}
			if _, err := s.Insert(c, newChunk(c)); err != nil {
				t.Fatalf("insert %v: %v", c, err)
			}
		}
	}
	n, ok := s.Borrow9(ChunkCoord{0, 0})
	if !ok {
		t.Fatalf("expected center to be found")
	}
	seen := make(map[*Chunk]bool)
	for i, c := range n {
		if c == nil {
			t.Fatalf("slot %d unexpectedly nil", i)
		}
		if seen[c] {
			t.Fatalf("slot %d aliases a previously seen chunk", i)
		}
		seen[c] = true
	}
	if n.Center().Coord() != (ChunkCoord{0, 0}) {
		t.Fatalf("center mismatch")
	}
}

func TestChunkStoreBorrow9MissingNeighbor(t *testing.T) {
	s := NewChunkStore()
	center := ChunkCoord{0, 0}
	s.Insert(center, newChunk(center))
	n, ok := s.Borrow9(center)
	if !ok {
		t.Fatalf("expected center present")
	}
	for i, c := range n {
		if i == 4 {
			continue
		}
		if c != nil {
			t.Fatalf("slot %d should be nil, neighbor was never inserted", i)
		}
	}
}

func TestChunkStoreWithNeighbors(t *testing.T) {
	s := NewChunkStore()
	center := ChunkCoord{0, 0}
	right := ChunkCoord{1, 0}
	s.Insert(center, newChunk(center))
	s.Insert(right, newChunk(right))

	called := false
	ok := s.WithNeighbors(center, func(c *Chunk, neighbors Neighborhood9) {
		called = true
		if c.Coord() != center {
			t.Fatalf("center mismatch in callback")
		}
		if neighbors[5] == nil || neighbors[5].Coord() != right {
			t.Fatalf("expected (1,0) neighbor at slot 5")
		}
	})
	if !ok || !called {
		t.Fatalf("WithNeighbors did not run callback")
	}
	if !s.Contains(center) {
		t.Fatalf("center should be reinserted after WithNeighbors")
	}
}
