package world

import (
	"context"
	"errors"
	"testing"
)

func TestTxGetSetRoundTrip(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	coord := ChunkCoord{2, -1}
	c := newChunk(coord)
	c.allocate(false, false)
	c.state = State{Kind: Active}
	w.store.Insert(coord, c)

	m := MaterialInstance{MaterialID: 42, Color: [4]uint8{9, 9, 9, 9}}
	wx := int64(coord.X)*ChunkSize + 5
	wy := int64(coord.Y)*ChunkSize + 7
	w.Exec(func(tx *Tx) {
		if err := tx.Set(wx, wy, m); err != nil {
			t.Fatalf("Set: %v", err)
		}
	})
	w.Exec(func(tx *Tx) {
		got, err := tx.Get(wx, wy)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != m {
			t.Fatalf("Get() = %+v, want %+v", got, m)
		}
	})
}

func TestTxGetUnloadedPosition(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	w.Exec(func(tx *Tx) {
		_, err := tx.Get(1_000_000, 1_000_000)
		var want PositionNotLoadedError
		if !errors.As(err, &want) {
			t.Fatalf("Get on unloaded position: got %v, want PositionNotLoadedError", err)
		}
	})
}

func TestTxSetInvalidLocalCoord(t *testing.T) {
	// Set itself always computes a valid local coord from floor division,
	// so exercise the underlying Chunk path for an out-of-range coordinate
	// instead, confirming the error kind threads through Tx unchanged.
	c := newChunk(ChunkCoord{0, 0})
	c.allocate(false, false)
	_, err := c.Pixel(ChunkSize, 0)
	var want InvalidPixelCoordError
	if !errors.As(err, &want) {
		t.Fatalf("got %v, want InvalidPixelCoordError", err)
	}
}

func TestTxPixelToChunkNegativeFloors(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	w.Exec(func(tx *Tx) {
		got := tx.PixelToChunk(-1, -1)
		want := ChunkCoord{X: -1, Y: -1}
		if got != want {
			t.Fatalf("PixelToChunk(-1,-1) = %v, want %v", got, want)
		}
		got = tx.PixelToChunk(-ChunkSize, 0)
		want = ChunkCoord{X: -1, Y: 0}
		if got != want {
			t.Fatalf("PixelToChunk(-ChunkSize,0) = %v, want %v", got, want)
		}
	})
}

func TestTxForceUpdateChunk(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	coord := ChunkCoord{0, 0}
	c := newChunk(coord)
	c.allocate(false, false)
	w.store.Insert(coord, c)

	w.Exec(func(tx *Tx) {
		if err := tx.ForceUpdateChunk(coord); err != nil {
			t.Fatalf("ForceUpdateChunk: %v", err)
		}
	})
	if !c.dirty.Ok {
		t.Fatalf("expected chunk marked fully dirty")
	}

	w.Exec(func(tx *Tx) {
		err := tx.ForceUpdateChunk(ChunkCoord{99, 99})
		var want PositionNotLoadedError
		if !errors.As(err, &want) {
			t.Fatalf("got %v, want PositionNotLoadedError", err)
		}
	})
}

func TestTxIterLoadedAndLoaded(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	for i := int32(0); i < 3; i++ {
		coord := ChunkCoord{i, 0}
		c := newChunk(coord)
		c.allocate(false, false)
		w.store.Insert(coord, c)
	}
	w.Exec(func(tx *Tx) {
		if tx.Loaded() != 3 {
			t.Fatalf("Loaded() = %d, want 3", tx.Loaded())
		}
		seen := 0
		tx.IterLoaded(func(ChunkId, *Chunk) { seen++ })
		if seen != 3 {
			t.Fatalf("IterLoaded visited %d chunks, want 3", seen)
		}
	})
}

func TestWorldExecPanicsAfterClose(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	w.Close()
	defer func() {
		r := recover()
		if r != ClosedPanicMessage {
			t.Fatalf("recovered %v, want %q", r, ClosedPanicMessage)
		}
	}()
	w.Exec(func(tx *Tx) {})
}

func TestWorldTickTimeAdvances(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	for i := 0; i < 3; i++ {
		if err := w.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if w.TickTime() != 3 {
		t.Fatalf("TickTime() = %d, want 3", w.TickTime())
	}
}
