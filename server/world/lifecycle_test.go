package world

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestEmptyTickIsNoOp covers an idempotence property: a tick with no
// loaders and an empty store must do nothing observable.
func TestEmptyTickIsNoOp(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if w.store.Len() != 0 {
		t.Fatalf("expected empty store after a no-loader tick, got %d chunks", w.store.Len())
	}
}

// TestScenarioQueueAndLoad covers the end-to-end load-and-queue scenario.
func TestScenarioQueueAndLoad(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	w.Exec(func(tx *Tx) {
		tx.AddLoader(NewLoader(mgl64.Vec2{0, 0}, 640, 360))
		tx.QueueLoadChunk(ChunkCoord{11, -12})
		tx.QueueLoadChunk(ChunkCoord{-3, 2})
	})

	for i := 0; i < 1000 && w.queue.Len() > 0; i++ {
		if err := w.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if w.queue.Len() != 0 {
		t.Fatalf("queue never drained")
	}
	if !w.store.Contains(ChunkCoord{11, -12}) {
		t.Fatalf("expected (11,-12) to be present")
	}
	if !w.store.Contains(ChunkCoord{-3, 2}) {
		t.Fatalf("expected (-3,2) to be present")
	}
	if !w.store.Contains(ChunkCoord{0, 0}) {
		t.Fatalf("expected (0,0) to be present (loader origin)")
	}
	if w.store.Contains(ChunkCoord{-120, 11}) {
		t.Fatalf("did not expect (-120,11) to be present")
	}
}

// TestScenarioLoaderRemoval covers loader removal triggering an unload.
func TestScenarioLoaderRemoval(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	loader := NewLoader(mgl64.Vec2{0, 0}, 640, 360)
	w.Exec(func(tx *Tx) {
		tx.AddLoader(loader)
		tx.QueueLoadChunk(ChunkCoord{11, -12})
		tx.QueueLoadChunk(ChunkCoord{-3, 2})
	})
	for i := 0; i < 1000 && w.queue.Len() > 0; i++ {
		w.Tick(context.Background())
	}
	if !w.store.Contains(ChunkCoord{11, -12}) || !w.store.Contains(ChunkCoord{-3, 2}) {
		t.Fatalf("setup failed: chunks not loaded")
	}

	w.Exec(func(tx *Tx) {
		tx.RemoveLoader(loader)
	})
	// Even ticks run the unload sweep; tick until one lands on an even count.
	for i := 0; i < 2; i++ {
		if err := w.Tick(context.Background()); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if w.store.Contains(ChunkCoord{11, -12}) || w.store.Contains(ChunkCoord{-3, 2}) {
		t.Fatalf("expected chunks unloaded once no loader covers them")
	}
}

func TestLoadQueueNeverContainsLoadedCoord(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	coord := ChunkCoord{2, 2}
	w.Exec(func(tx *Tx) { tx.QueueLoadChunk(coord) })
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if w.queue.Contains(coord) {
		t.Fatalf("load queue must never contain an already-loaded coord")
	}
}

func TestActiveChunkInvariantAfterTick(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	w.Exec(func(tx *Tx) {
		tx.AddLoader(NewLoader(mgl64.Vec2{0, 0}, 640, 360))
		for x := int32(-3); x <= 3; x++ {
			for y := int32(-3); y <= 3; y++ {
				tx.QueueLoadChunk(ChunkCoord{X: x, Y: y})
			}
		}
	})
	for i := 0; i < 200; i++ {
		if err := w.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	w.store.Range(func(id ChunkId, c *Chunk) {
		if c.State().Kind != Active {
			return
		}
		for _, off := range neighborOffsets {
			if off == [2]int32{0, 0} {
				continue
			}
			n, ok := w.store.Get(ChunkCoord{X: c.Coord().X + off[0], Y: c.Coord().Y + off[1]})
			if !ok || !n.State().readyForSimulation() {
				t.Fatalf("active chunk %v has a non-ready neighbor at offset %v", c.Coord(), off)
			}
		}
	})
}
