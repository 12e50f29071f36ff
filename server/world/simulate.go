package world

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Phase returns the checkerboard color of coord in {0,1,2,3}:
// ((-y) mod 2)*2 + (x mod 2), with Euclidean modulo. No 8-neighbor of coord
// shares its phase, which is what makes per-phase dispatch race-free.
func Phase(coord ChunkCoord) int {
	return int(euclidMod(-coord.Y, 2))*2 + int(euclidMod(coord.X, 2))
}

func euclidMod(a, n int32) int32 {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// simTask is one phase's unit of kernel dispatch.
type simTask struct {
	coord ChunkCoord
}

// simResult is a completed kernel dispatch awaiting propagation.
type simResult struct {
	coord ChunkCoord
	res   KernelResult
}

// runSimulationSweep snapshots and clears every loaded chunk's dirty rect,
// then runs the four checkerboard phases in order, each phase a parallel
// barrier over its disjoint 3×3 tasks, propagating dirty state into
// neighbors after each phase completes.
func runSimulationSweep(ctx context.Context, w *World) error {
	old := make(map[ChunkId]DirtyRect, w.store.Len())
	w.store.Range(func(id ChunkId, c *Chunk) {
		old[id] = c.snapshotAndClearDirty()
	})

	for p := 0; p < 4; p++ {
		var tasks []simTask
		w.store.Range(func(id ChunkId, c *Chunk) {
			if c.state.Kind != Active {
				return
			}
			if Phase(c.coord) != p {
				return
			}
			d, ok := old[id]
			if !ok || !d.Ok {
				return
			}
			tasks = append(tasks, simTask{coord: c.coord})
		})
		if len(tasks) == 0 {
			continue
		}

		// Rebuild the store's dense index synchronously: Borrow9 below is
		// called from many goroutines at once, and the rebuild itself
		// mutates shared state, so it must happen before they start.
		w.store.rebuildArena()

		if w.conf.DebugAssertDisjoint {
			coords := make([]ChunkCoord, len(tasks))
			for i, t := range tasks {
				coords[i] = t.coord
			}
			assertPhaseDisjoint(w.store, coords)
		}

		results := make([]simResult, len(tasks))
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(w.conf.Workers)
		for i, task := range tasks {
			i, task := i, task
			g.Go(func() error {
				neighbors, ok := w.store.Borrow9(task.coord)
				if !ok {
					return nil
				}
				var oldDirty [9]DirtyRect
				for j, off := range neighborOffsets {
					nc := neighbors[j]
					if nc == nil {
						continue
					}
					nid, err := CoordToID(ChunkCoord{X: task.coord.X + off[0], Y: task.coord.Y + off[1]})
					if err != nil {
						continue
					}
					oldDirty[j] = old[nid]
				}
				results[i] = simResult{coord: task.coord, res: w.conf.Kernel.Simulate(task.coord, neighbors, oldDirty)}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, r := range results {
			applyKernelResult(w.store, r.coord, old[mustChunkID(r.coord)], r.res)
		}
	}
	return nil
}

func mustChunkID(coord ChunkCoord) ChunkId {
	id, _ := CoordToID(coord)
	return id
}
