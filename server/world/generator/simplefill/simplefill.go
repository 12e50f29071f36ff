// Package simplefill is a concrete world.Generator: a flat stage-0 fill
// (solid below a configurable surface height, air above) followed by one
// populate stage that scatters a decoration material near the surface.
// A flat height test fixture standing in for biome/noise terrain, with an
// xxhash-based per-chunk seed mix.
package simplefill

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/dm-vev/sandcore/server/world"
)

// Materials used by the generator. A real generator would look these up
// from a block/material registry; this one hardcodes them since it exists
// to exercise the generation pipeline, not to model real materials.
const (
	MaterialAir   uint32 = 0
	MaterialStone uint32 = 1
	MaterialDirt  uint32 = 2
)

// Generator fills chunks flat up to SurfaceY and scatters a decoration
// material in a thin band just below the surface during its one populate
// stage.
type Generator struct {
	SurfaceY   int32
	Decoration uint32
}

// New creates a Generator with a surface at surfaceY.
func New(surfaceY int32) *Generator {
	return &Generator{SurfaceY: surfaceY, Decoration: MaterialDirt}
}

func (g *Generator) MaxStage() uint8 { return 1 }

// chunkSeed mixes the world seed with a chunk coordinate via xxhash into a
// collision-resistant per-chunk seed.
func chunkSeed(coord world.ChunkCoord, seed int64) uint64 {
	var buf [8]byte
	buf[0] = byte(coord.X)
	buf[1] = byte(coord.X >> 8)
	buf[2] = byte(coord.X >> 16)
	buf[3] = byte(coord.X >> 24)
	buf[4] = byte(coord.Y)
	buf[5] = byte(coord.Y >> 8)
	buf[6] = byte(coord.Y >> 16)
	buf[7] = byte(coord.Y >> 24)
	return xxhash.Sum64(buf[:]) ^ uint64(seed)
}

// Generate is the stage-0 bulk fill: world-space y grows downward, so every
// pixel at or below the surface (worldY >= SurfaceY) is stone and everything
// above it is air. A chunk-seeded RNG
// lightly varies the stone color so adjacent chunks aren't bit-identical.
func (g *Generator) Generate(coord world.ChunkCoord, seed int64, pixelsOut []world.MaterialInstance, colorsOut []byte) {
	r := rand.New(rand.NewSource(int64(chunkSeed(coord, seed))))
	base := coord.Y * world.ChunkSize
	for y := int32(0); y < world.ChunkSize; y++ {
		worldY := base + y
		m := materialFor(worldY, g.SurfaceY)
		color := colorFor(m)
		if m.MaterialID == MaterialStone {
			shade := uint8(r.Intn(16))
			color[0] -= shade
			color[1] -= shade
			color[2] -= shade
		}
		m.Color = color
		for x := int32(0); x < world.ChunkSize; x++ {
			i := int(x + y*world.ChunkSize)
			pixelsOut[i] = m
			copy(colorsOut[i*4:i*4+4], color[:])
		}
	}
}

// Populate is the only stage beyond 0: it scatters Decoration pixels across
// a thin band just below the surface in the center chunk, using the
// neighborhood context only to read, never write, past the center (a real
// populator might carve features that straddle a chunk edge).
func (g *Generator) Populate(stage uint8, ctx world.ChunkContext, seed int64, rng *rand.Rand) {
	if stage != 0 {
		return
	}
	base := ctx.Center.Y * world.ChunkSize
	bandTop, bandBottom := g.SurfaceY, g.SurfaceY+4
	for y := int32(0); y < world.ChunkSize; y++ {
		worldY := base + y
		if worldY < bandTop || worldY >= bandBottom {
			continue
		}
		for x := int32(0); x < world.ChunkSize; x++ {
			if rng.Intn(5) != 0 {
				continue
			}
			m, err := ctx.Pixel(0, 0, x, y)
			if err != nil || m.MaterialID != MaterialStone {
				continue
			}
			m.MaterialID = g.Decoration
			m.Color = colorFor(m)
			_ = ctx.SetPixel(0, 0, x, y, m)
		}
	}
}

func materialFor(worldY, surfaceY int32) world.MaterialInstance {
	if worldY >= surfaceY {
		return world.MaterialInstance{MaterialID: MaterialStone, Physics: 1, Color: colorFor(world.MaterialInstance{MaterialID: MaterialStone})}
	}
	return world.MaterialInstance{MaterialID: MaterialAir}
}

func colorFor(m world.MaterialInstance) [4]uint8 {
	switch m.MaterialID {
	case MaterialStone:
		return [4]uint8{120, 120, 120, 255}
	case MaterialDirt:
		return [4]uint8{139, 90, 43, 255}
	default:
		return [4]uint8{0, 0, 0, 0}
	}
}
