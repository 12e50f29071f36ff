package world

// KernelResult is what a Kernel invocation returns for one 3×3
// neighborhood: per-slot dirtiness flags and output dirty rects, indexed
// the same way as Neighborhood9 (i = (dx+1) + (dy+1)*3, center at 4).
type KernelResult struct {
	Dirty      [9]bool
	DirtyRects [9]DirtyRect
}

// Kernel is the external simulate_chunk contract: given a center coord,
// its 3×3 neighborhood, and each slot's pre-tick dirty rect, it mutates the
// neighborhood's pixel/color buffers in place and reports what changed.
// Implementations must only read/write the nine supplied chunks and must be
// deterministic given their inputs; a panic inside a kernel is treated as a
// fatal programming error and is not recovered by the scheduler.
type Kernel interface {
	Simulate(center ChunkCoord, neighbors Neighborhood9, oldDirty [9]DirtyRect) KernelResult
}

// NopKernel performs no simulation; every slot reports clean. Used in tests
// that only need to exercise dirty-rect propagation or scheduling, not
// cellular rules.
type NopKernel struct{}

func (NopKernel) Simulate(ChunkCoord, Neighborhood9, [9]DirtyRect) KernelResult {
	return KernelResult{}
}
