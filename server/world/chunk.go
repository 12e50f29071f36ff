package world

// Chunk owns a fixed S×S pixel grid plus the bookkeeping the lifecycle and
// simulation scheduler need: lifecycle state, a dirty rect, and optional
// background/light buffers. The zero value is not useful; construct with
// newChunk.
type Chunk struct {
	coord ChunkCoord
	state State

	// pixels and colors are nil until generation stage 0 has run.
	pixels []MaterialInstance
	colors []byte // len 4*chunkArea, kept in sync with pixels[i].Color

	background []MaterialInstance // optional, same layout as pixels
	light      [][3]float32       // optional, one triple per pixel

	dirty DirtyRect

	// graphicsDirty is the out-of-band flag DirtyRectPropagator sets for
	// neighbors of a changed center; core only flips the bit.
	graphicsDirty bool
}

func newChunk(coord ChunkCoord) *Chunk {
	return &Chunk{coord: coord, state: State{Kind: NotGenerated}}
}

// Coord returns the chunk's coordinate.
func (c *Chunk) Coord() ChunkCoord { return c.coord }

// State returns the chunk's current lifecycle state.
func (c *Chunk) State() State { return c.state }

// Ready reports whether pixel/color buffers are allocated (generation stage
// 0 has completed).
func (c *Chunk) Ready() bool { return c.pixels != nil }

// WorldBounds returns the chunk's world-space pixel rect.
func (c *Chunk) WorldBounds() Rect {
	return Rect{X: c.coord.X * ChunkSize, Y: c.coord.Y * ChunkSize, W: ChunkSize, H: ChunkSize}
}

// allocate reserves pixel/color buffers, and light/background ones if
// enabled. It is a no-op if already allocated.
func (c *Chunk) allocate(withLight, withBackground bool) {
	if c.pixels == nil {
		c.pixels = make([]MaterialInstance, chunkArea)
		c.colors = make([]byte, chunkArea*4)
	}
	if withLight && c.light == nil {
		c.light = make([][3]float32, chunkArea)
	}
	if withBackground && c.background == nil {
		c.background = make([]MaterialInstance, chunkArea)
	}
}

// RawPixels returns the chunk's pixel buffer directly, nil if unallocated.
// Intended for Kernel implementations, which own dirty-rect bookkeeping
// themselves via their returned KernelResult; SetPixel is the
// bounds-checked, dirty-tracking accessor for everyone else.
func (c *Chunk) RawPixels() []MaterialInstance { return c.pixels }

// RawColors returns the chunk's color buffer directly, nil if unallocated.
func (c *Chunk) RawColors() []byte { return c.colors }

// Pixel returns the material at chunk-local (x, y).
func (c *Chunk) Pixel(x, y int32) (MaterialInstance, error) {
	i, err := pixelIndex(x, y)
	if err != nil {
		return MaterialInstance{}, err
	}
	if !c.Ready() {
		return MaterialInstance{}, ChunkNotReadyError{Coord: c.coord, State: c.state}
	}
	return c.pixels[i], nil
}

// SetPixel writes the material at chunk-local (x, y), keeping colors in
// sync, and marks the single-pixel rect dirty.
func (c *Chunk) SetPixel(x, y int32, m MaterialInstance) error {
	i, err := pixelIndex(x, y)
	if err != nil {
		return err
	}
	if !c.Ready() {
		return ChunkNotReadyError{Coord: c.coord, State: c.state}
	}
	c.pixels[i] = m
	copy(c.colors[i*4:i*4+4], m.Color[:])
	if c.light != nil {
		c.light[i] = m.Light
	}
	c.dirty = c.dirty.Union(Rect{X: x, Y: y, W: 1, H: 1})
	return nil
}

// markDirty unions r into the chunk's dirty rect.
func (c *Chunk) markDirty(r Rect) {
	c.dirty = c.dirty.Union(r)
}

// markFullyDirty marks the whole chunk dirty, used on Cached→Active
// promotion and force_update_chunk.
func (c *Chunk) markFullyDirty() {
	c.dirty = FullChunkDirty()
}

// snapshotAndClearDirty returns the current dirty rect and resets it to
// none, the first step of the per-tick simulation pass.
func (c *Chunk) snapshotAndClearDirty() DirtyRect {
	d := c.dirty
	c.dirty = DirtyRect{}
	return d
}
