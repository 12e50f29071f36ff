package world

// Tx is the transactional handle external code uses to read and mutate a
// World. A Tx is only valid for the duration of the
// callback passed to World.Exec; it must not be retained past that call.
type Tx struct {
	w *World
}

// IterLoaded calls fn for every loaded chunk.
func (tx *Tx) IterLoaded(fn func(id ChunkId, c *Chunk)) {
	tx.w.store.Range(fn)
}

// Chunk returns the chunk loaded at coord, if any.
func (tx *Tx) Chunk(coord ChunkCoord) (*Chunk, bool) {
	return tx.w.store.Get(coord)
}

// Loaded returns the number of currently loaded chunks.
func (tx *Tx) Loaded() int {
	return tx.w.store.Len()
}

// floorDiv divides a by b, rounding toward negative infinity (unlike Go's
// native truncating /).
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// PixelToChunk converts a world-space pixel coordinate into the chunk
// coordinate that contains it.
func (tx *Tx) PixelToChunk(x, y int64) ChunkCoord {
	return ChunkCoord{X: int32(floorDiv(x, ChunkSize)), Y: int32(floorDiv(y, ChunkSize))}
}

// Get returns the pixel at world-space (x, y).
func (tx *Tx) Get(x, y int64) (MaterialInstance, error) {
	coord := tx.PixelToChunk(x, y)
	c, ok := tx.w.store.Get(coord)
	if !ok {
		return MaterialInstance{}, PositionNotLoadedError{X: x, Y: y}
	}
	lx := int32(x - int64(coord.X)*ChunkSize)
	ly := int32(y - int64(coord.Y)*ChunkSize)
	return c.Pixel(lx, ly)
}

// Set writes the pixel at world-space (x, y).
func (tx *Tx) Set(x, y int64, m MaterialInstance) error {
	coord := tx.PixelToChunk(x, y)
	c, ok := tx.w.store.Get(coord)
	if !ok {
		return PositionNotLoadedError{X: x, Y: y}
	}
	lx := int32(x - int64(coord.X)*ChunkSize)
	ly := int32(y - int64(coord.Y)*ChunkSize)
	return c.SetPixel(lx, ly, m)
}

// ForceUpdateChunk sets coord's full dirty rect, if loaded.
func (tx *Tx) ForceUpdateChunk(coord ChunkCoord) error {
	c, ok := tx.w.store.Get(coord)
	if !ok {
		return PositionNotLoadedError{X: int64(coord.X) * ChunkSize, Y: int64(coord.Y) * ChunkSize}
	}
	c.markFullyDirty()
	return nil
}

// QueueLoadChunk enqueues coord for instantiation, returning false if it is
// already loaded or already queued.
func (tx *Tx) QueueLoadChunk(coord ChunkCoord) bool {
	if tx.w.store.Contains(coord) {
		return false
	}
	return tx.w.queue.Enqueue(coord)
}

// AddLoader registers l with the world.
func (tx *Tx) AddLoader(l *Loader) {
	tx.w.loaders = append(tx.w.loaders, l)
}

// RemoveLoader unregisters l from the world.
func (tx *Tx) RemoveLoader(l *Loader) {
	for i, o := range tx.w.loaders {
		if o == l {
			tx.w.loaders = append(tx.w.loaders[:i], tx.w.loaders[i+1:]...)
			return
		}
	}
}

// TPS returns the world's rolling-average ticks-per-second.
func (tx *Tx) TPS() float64 {
	return tx.w.metrics.tps()
}
