package world

// pixelToChunk converts a world-space pixel coordinate into its containing
// chunk coordinate, flooring toward negative infinity.
func pixelToChunk(x, y int32) ChunkCoord {
	return ChunkCoord{
		X: int32(floorDiv(int64(x), ChunkSize)),
		Y: int32(floorDiv(int64(y), ChunkSize)),
	}
}

// queueLoadZones is lifecycle sweep 1: for each loader, walk its load-zone
// rectangle in steps of ChunkSize and enqueue the chunk
// containing each grid point, skipping chunks already loaded or queued.
func queueLoadZones(w *World, loaders []*Loader) {
	for _, l := range loaders {
		r := l.Zones().Load
		for gy := r.Y; gy < r.Y+r.H; gy += ChunkSize {
			for gx := r.X; gx < r.X+r.W; gx += ChunkSize {
				coord := pixelToChunk(gx, gy)
				if w.store.Contains(coord) {
					continue
				}
				w.queue.Enqueue(coord)
			}
		}
	}
}

// drainLoadQueue is sweep 2: pop up to Settings.LoadPerTick entries and
// instantiate each as NotGenerated.
func drainLoadQueue(w *World) {
	budget := w.conf.Settings.LoadPerTick
	for i := 0; i < budget; i++ {
		coord, ok := w.queue.Pop()
		if !ok {
			return
		}
		if w.store.Contains(coord) {
			continue
		}
		if _, err := w.store.Insert(coord, newChunk(coord)); err != nil {
			// Cantor id overflow: coord is unreachable, skip it silently.
			continue
		}
	}
}

// anyZoneIntersects reports whether any loader's zone (selected by pick)
// intersects bounds.
func anyZoneIntersects(loaders []*Loader, bounds Rect, pick func(Zones) Rect) bool {
	for _, l := range loaders {
		if pick(l.Zones()).Intersects(bounds) {
			return true
		}
	}
	return false
}

// runCacheActiveSweep is sweep 3, run only on even ticks: Cached chunks
// with no surviving unload-zone unload; Cached chunks in an active zone
// with all 8 neighbors ready promote to Active; Active chunks with no
// active-zone intersection demote to Cached. Removals are collected into a
// list of ids and applied after iterating so the sweep order stays stable.
func runCacheActiveSweep(w *World, loaders []*Loader) {
	var toUnload []ChunkId
	var toPromote []ChunkCoord
	var toDemote []ChunkCoord

	w.store.Range(func(id ChunkId, c *Chunk) {
		bounds := c.WorldBounds()
		switch c.state.Kind {
		case Cached:
			if !anyZoneIntersects(loaders, bounds, func(z Zones) Rect { return z.Unload }) {
				toUnload = append(toUnload, id)
				return
			}
			if anyZoneIntersects(loaders, bounds, func(z Zones) Rect { return z.Active }) && allNeighborsReady(w.store, c.coord) {
				toPromote = append(toPromote, c.coord)
			}
		case Active:
			if !anyZoneIntersects(loaders, bounds, func(z Zones) Rect { return z.Active }) {
				toDemote = append(toDemote, c.coord)
			}
		}
	})

	for _, coord := range toPromote {
		if c, ok := w.store.Get(coord); ok {
			c.state = State{Kind: Active}
			c.markFullyDirty()
		}
	}
	for _, coord := range toDemote {
		if c, ok := w.store.Get(coord); ok {
			c.state = State{Kind: Cached}
		}
	}
	for _, id := range toUnload {
		w.store.Remove(id)
	}
}

// allNeighborsReady reports whether every one of coord's 8 neighbors exists
// in the store with state Cached or Active.
func allNeighborsReady(store *ChunkStore, coord ChunkCoord) bool {
	for _, off := range neighborOffsets {
		if off == [2]int32{0, 0} {
			continue
		}
		n, ok := store.Get(ChunkCoord{X: coord.X + off[0], Y: coord.Y + off[1]})
		if !ok || !n.state.readyForSimulation() {
			return false
		}
	}
	return true
}
