package world

import "math/rand"

// ChunkContext gives a stage-s populator restricted access to a center
// chunk's 3×3 neighborhood (radius 1). Reads and writes are bounds-checked
// against the neighbor's own allocated buffers so a populator can never
// reach past its lease.
type ChunkContext struct {
	Center    ChunkCoord
	Neighbors Neighborhood9
}

// slotFor returns the Neighborhood9 index for the neighbor at offset
// (dx, dy), each in {-1, 0, 1}, or -1 if out of range.
func slotFor(dx, dy int32) int {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return -1
	}
	for i, off := range neighborOffsets {
		if off[0] == dx && off[1] == dy {
			return i
		}
	}
	return -1
}

// Pixel reads chunk-local (x, y) from the neighbor at offset (dx, dy).
func (ctx ChunkContext) Pixel(dx, dy, x, y int32) (MaterialInstance, error) {
	slot := slotFor(dx, dy)
	if slot < 0 || ctx.Neighbors[slot] == nil {
		return MaterialInstance{}, ChunkNotReadyError{Coord: ChunkCoord{X: ctx.Center.X + dx, Y: ctx.Center.Y + dy}}
	}
	return ctx.Neighbors[slot].Pixel(x, y)
}

// SetPixel writes chunk-local (x, y) on the neighbor at offset (dx, dy).
func (ctx ChunkContext) SetPixel(dx, dy, x, y int32, m MaterialInstance) error {
	slot := slotFor(dx, dy)
	if slot < 0 || ctx.Neighbors[slot] == nil {
		return ChunkNotReadyError{Coord: ChunkCoord{X: ctx.Center.X + dx, Y: ctx.Center.Y + dy}}
	}
	return ctx.Neighbors[slot].SetPixel(x, y, m)
}

// Generator is the external world-generation contract: stage 0 bulk
// fills a chunk's pixel/color buffers in isolation, later stages populate
// with 1-chunk-radius access to neighbors. Stages are totally ordered;
// MaxStage is a fixed property of the generator.
type Generator interface {
	MaxStage() uint8
	Generate(coord ChunkCoord, seed int64, pixelsOut []MaterialInstance, colorsOut []byte)
	Populate(stage uint8, ctx ChunkContext, seed int64, rng *rand.Rand)
}

// NopGenerator produces chunks with no stages: Generate leaves buffers at
// their zero value and MaxStage is 0, so every chunk reaches Cached after
// stage-0 fill alone. Used in tests that don't exercise generation content.
type NopGenerator struct{}

func (NopGenerator) MaxStage() uint8 { return 0 }

func (NopGenerator) Generate(ChunkCoord, int64, []MaterialInstance, []byte) {}

func (NopGenerator) Populate(uint8, ChunkContext, int64, *rand.Rand) {}
