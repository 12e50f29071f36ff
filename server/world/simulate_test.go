package world

import (
	"context"
	"sync"
	"testing"
)

// recordingKernel records every chunk coordinate touched by a Simulate
// call, to catch cross-task aliasing within a phase.
type recordingKernel struct {
	mu      sync.Mutex
	touched map[ChunkCoord]int
}

func newRecordingKernel() *recordingKernel {
	return &recordingKernel{touched: make(map[ChunkCoord]int)}
}

func (k *recordingKernel) Simulate(center ChunkCoord, n Neighborhood9, old [9]DirtyRect) KernelResult {
	k.mu.Lock()
	for i, off := range neighborOffsets {
		if n[i] == nil {
			continue
		}
		k.touched[ChunkCoord{X: center.X + off[0], Y: center.Y + off[1]}]++
	}
	k.mu.Unlock()
	return KernelResult{}
}

func TestSimulationParallelPhaseSafety(t *testing.T) {
	w := newTestWorld(NopGenerator{}, newRecordingKernel(), DefaultSettings())
	w.conf.DebugAssertDisjoint = true

	for x := int32(0); x < 10; x++ {
		for y := int32(0); y < 10; y++ {
			coord := ChunkCoord{X: x, Y: y}
			c := newChunk(coord)
			c.allocate(false, false)
			c.state = State{Kind: Active}
			c.markFullyDirty()
			w.store.Insert(coord, c)
		}
	}

	if err := runSimulationSweep(context.Background(), w); err != nil {
		t.Fatalf("simulation sweep: %v", err)
	}

	k := w.conf.Kernel.(*recordingKernel)
	k.mu.Lock()
	defer k.mu.Unlock()
	// Every 100-chunk neighborhood touch should have been counted exactly
	// once per task that reached it; no panic from assertPhaseDisjoint
	// already proves disjointness, this just sanity-checks coverage.
	if len(k.touched) == 0 {
		t.Fatalf("kernel was never dispatched")
	}
}

func TestSimulationSnapshotClearsBeforeDispatch(t *testing.T) {
	w := newTestWorld(NopGenerator{}, NopKernel{}, DefaultSettings())
	coord := ChunkCoord{0, 0}
	c := newChunk(coord)
	c.allocate(false, false)
	c.state = State{Kind: Active}
	c.markFullyDirty()
	w.store.Insert(coord, c)

	if err := runSimulationSweep(context.Background(), w); err != nil {
		t.Fatalf("simulation sweep: %v", err)
	}
	if c.dirty.Ok {
		t.Fatalf("expected dirty rect cleared after a no-op kernel tick")
	}
}

func TestSimulationSkipsCleanChunks(t *testing.T) {
	w := newTestWorld(NopGenerator{}, newRecordingKernel(), DefaultSettings())
	coord := ChunkCoord{0, 0}
	c := newChunk(coord)
	c.allocate(false, false)
	c.state = State{Kind: Active}
	// No dirty mark: kernel should never be dispatched for this chunk.
	w.store.Insert(coord, c)

	if err := runSimulationSweep(context.Background(), w); err != nil {
		t.Fatalf("simulation sweep: %v", err)
	}
	k := w.conf.Kernel.(*recordingKernel)
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.touched) != 0 {
		t.Fatalf("kernel dispatched for a clean chunk: %v", k.touched)
	}
}
