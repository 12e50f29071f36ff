package world

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// generationTask pairs a candidate chunk with its priority (Manhattan
// distance from the nearest loader), used to order the per-tick batch.
type generationTask struct {
	coord ChunkCoord
	dist  int64
}

// runGenerationSweep submits a bounded, loader-proximity-ordered batch of
// stage-0 fills for NotGenerated chunks, then advances every
// Generating(s) chunk whose 3×3 neighborhood has caught up to stage s.
func runGenerationSweep(ctx context.Context, w *World, loaders []*Loader) error {
	var toUnload []ChunkId
	var candidates []generationTask

	w.store.Range(func(id ChunkId, c *Chunk) {
		if c.state.Kind != NotGenerated {
			return
		}
		bounds := c.WorldBounds()
		if !anyZoneIntersects(loaders, bounds, func(z Zones) Rect { return z.Unload }) {
			toUnload = append(toUnload, id)
			return
		}
		candidates = append(candidates, generationTask{coord: c.coord, dist: minManhattan(loaders, c.coord)})
	})
	for _, id := range toUnload {
		w.store.Remove(id)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	batch := candidates
	budget := w.conf.Settings.GenPerTick
	if len(batch) > budget {
		w.metrics.incSaturation()
		now := time.Now().UnixNano()
		if last := w.metrics.lastSaturationWarn.Load(); last == 0 || now-last >= int64(5*time.Second) {
			w.metrics.lastSaturationWarn.Store(now)
			w.conf.Log.Warn("generation saturated", "pending", len(batch), "budget", budget, "saturated_ticks", w.metrics.saturationCount())
		}
		batch = batch[:budget]
	}

	for _, task := range batch {
		if c, ok := w.store.Get(task.coord); ok {
			c.state = State{Kind: Generating, Stage: 0}
		}
	}
	if len(batch) > 0 {
		if err := generateBatch(ctx, w, batch); err != nil {
			return err
		}
	}

	advanceGenerationStages(w, loaders)
	return nil
}

// minManhattan returns the minimum Manhattan distance from any loader to
// the chunk's world-space origin, or 0 if there are no loaders.
func minManhattan(loaders []*Loader, coord ChunkCoord) int64 {
	if len(loaders) == 0 {
		return 0
	}
	best := int64(math.MaxInt64)
	ox, oy := int64(coord.X)*ChunkSize, int64(coord.Y)*ChunkSize
	for _, l := range loaders {
		p := l.Position()
		dx := int64(p.X()) - ox
		dy := int64(p.Y()) - oy
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if d := dx + dy; d < best {
			best = d
		}
	}
	return best
}

// generateBatch runs generator.Generate over batch in parallel, bounded by
// a semaphore sized to the world's worker pool, and blocks until every task
// completes.
func generateBatch(ctx context.Context, w *World, batch []generationTask) error {
	batchID := uuid.New()
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(w.conf.Workers))

	for _, task := range batch {
		task := task
		c, ok := w.store.Get(task.coord)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			c.allocate(w.conf.Settings.WithLight, w.conf.Settings.WithBackground)
			w.conf.Generator.Generate(task.coord, w.conf.Seed, c.pixels, c.colors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.conf.Log.Error("generation batch failed", "batch", batchID, "size", len(batch), "err", err)
		return err
	}
	return nil
}

// advanceGenerationStages processes every Generating(s) chunk: chunks at or
// past max_stage become Cached; chunks whose neighborhood has caught up to
// stage s advance and run the stage-s populator; otherwise, chunks outside
// every unload zone are unloaded.
func advanceGenerationStages(w *World, loaders []*Loader) {
	var coords []ChunkCoord
	w.store.Range(func(id ChunkId, c *Chunk) {
		if c.state.Kind == Generating {
			coords = append(coords, c.coord)
		}
	})

	maxStage := w.conf.Generator.MaxStage()
	for _, coord := range coords {
		c, ok := w.store.Get(coord)
		if !ok {
			continue
		}
		stage := c.state.Stage
		if stage >= maxStage {
			c.state = State{Kind: Cached}
			continue
		}
		if !allNeighborsAtStage(w.store, coord, stage) {
			bounds := c.WorldBounds()
			if !anyZoneIntersects(loaders, bounds, func(z Zones) Rect { return z.Unload }) {
				if id, err := CoordToID(coord); err == nil {
					w.store.Remove(id)
				}
			}
			continue
		}
		neighbors, ok := w.store.Borrow9(coord)
		if !ok {
			continue
		}
		rng := rand.New(rand.NewSource(populateSeed(w.conf.Seed, coord)))
		w.conf.Generator.Populate(stage, ChunkContext{Center: coord, Neighbors: neighbors}, w.conf.Seed, rng)
		c.state = State{Kind: Generating, Stage: stage + 1}
	}
}

// allNeighborsAtStage reports whether every one of coord's 8 neighbors is
// Cached/Active, or Generating at stage ≥ minStage.
func allNeighborsAtStage(store *ChunkStore, coord ChunkCoord, minStage uint8) bool {
	for _, off := range neighborOffsets {
		if off == [2]int32{0, 0} {
			continue
		}
		n, ok := store.Get(ChunkCoord{X: coord.X + off[0], Y: coord.Y + off[1]})
		if !ok || !n.state.readyForStage(minStage) {
			return false
		}
	}
	return true
}

// populateSeed mixes the world seed with a chunk's coordinate into a
// distinct per-chunk RNG seed for deterministic populate calls.
func populateSeed(worldSeed int64, coord ChunkCoord) int64 {
	id, err := CoordToID(coord)
	if err != nil {
		return worldSeed
	}
	return worldSeed ^ int64(id)
}
