package world

import "testing"

// TestDirtyPropagationNoOpKernel: a no-op kernel on a lone chunk with a full
// dirty rect should leave the center's rect cleared after propagation.
func TestDirtyPropagationNoOpKernel(t *testing.T) {
	s := NewChunkStore()
	center := ChunkCoord{0, 0}
	c := newChunk(center)
	c.allocate(false, false)
	c.state = State{Kind: Active}
	c.markFullyDirty()
	s.Insert(center, c)

	old := c.snapshotAndClearDirty()
	res := KernelResult{} // no dirty flags, no output rects

	applyKernelResult(s, center, old, res)

	if c.dirty.Ok {
		t.Fatalf("center dirty rect should stay cleared after a no-op kernel")
	}
}

func TestDirtyPropagationCrossChunkFullRect(t *testing.T) {
	s := NewChunkStore()
	center := ChunkCoord{0, 0}
	right := ChunkCoord{1, 0}

	cc := newChunk(center)
	cc.allocate(false, false)
	cc.state = State{Kind: Active}
	s.Insert(center, cc)

	rc := newChunk(right)
	rc.allocate(false, false)
	rc.state = State{Kind: Active}
	s.Insert(right, rc)

	centerOld := DirtyRect{Rect: Rect{0, 0, ChunkSize, ChunkSize}, Ok: true}
	applyKernelResult(s, center, centerOld, KernelResult{})

	if !rc.dirty.Ok || rc.dirty.Rect != (Rect{0, 0, ChunkSize, ChunkSize}) {
		t.Fatalf("expected neighbor fully dirty after center change, got %+v", rc.dirty)
	}
}

func TestDirtyPropagationGraphicsFlag(t *testing.T) {
	s := NewChunkStore()
	center := ChunkCoord{0, 0}
	up := ChunkCoord{0, -1}

	cc := newChunk(center)
	cc.allocate(false, false)
	s.Insert(center, cc)
	uc := newChunk(up)
	uc.allocate(false, false)
	s.Insert(up, uc)

	var res KernelResult
	res.Dirty[1] = true // slot 1 = (0, -1) per neighborOffsets

	applyKernelResult(s, center, DirtyRect{}, res)
	if !uc.graphicsDirty {
		t.Fatalf("expected graphics-dirty flag propagated to (0,-1)")
	}
}

func TestAssertPhaseDisjointDetectsOverlap(t *testing.T) {
	s := NewChunkStore()
	for x := int32(-1); x <= 2; x++ {
		for y := int32(-1); y <= 1; y++ {
			c := ChunkCoord{X: x, Y: y}
			s.Insert(c, newChunk(c))
		}
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for overlapping neighborhoods")
		}
	}()
	// (0,0) and (1,0) share neighbors (e.g. both touch (0,0) or (1,0) itself).
	assertPhaseDisjoint(s, []ChunkCoord{{0, 0}, {1, 0}})
}

func TestAssertPhaseDisjointAcceptsDisjointSet(t *testing.T) {
	s := NewChunkStore()
	for x := int32(-3); x <= 3; x++ {
		for y := int32(-3); y <= 3; y++ {
			c := ChunkCoord{X: x, Y: y}
			s.Insert(c, newChunk(c))
		}
	}
	// (0,0) and (3,3) neighborhoods (radius 1) never overlap.
	assertPhaseDisjoint(s, []ChunkCoord{{0, 0}, {3, 3}})
}
