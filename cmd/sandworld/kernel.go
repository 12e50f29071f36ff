package main

import "github.com/dm-vev/sandcore/server/world"

// toyGravityKernel is a minimal simulate_chunk implementation for the demo
// binary: any non-air pixel with air directly below it within the same
// chunk falls one row. It never reads or writes outside the center slot,
// so it's safe regardless of neighbor availability; real kernels would use
// the full 3×3 neighborhood the contract provides.
type toyGravityKernel struct{}

func (toyGravityKernel) Simulate(center world.ChunkCoord, n world.Neighborhood9, old [9]world.DirtyRect) world.KernelResult {
	var res world.KernelResult
	c := n.Center()
	if c == nil || !c.Ready() || !old[4].Ok {
		return res
	}

	pixels, colors := c.RawPixels(), c.RawColors()
	changed := false
	for y := int32(world.ChunkSize - 2); y >= 0; y-- {
		for x := int32(0); x < world.ChunkSize; x++ {
			i := int(x + y*world.ChunkSize)
			if pixels[i].MaterialID == 0 {
				continue
			}
			below := i + world.ChunkSize
			if pixels[below].MaterialID != 0 {
				continue
			}
			pixels[below], pixels[i] = pixels[i], world.MaterialInstance{}
			copy(colors[below*4:below*4+4], colors[i*4:i*4+4])
			colors[i*4], colors[i*4+1], colors[i*4+2], colors[i*4+3] = 0, 0, 0, 0
			changed = true
		}
	}
	if changed {
		res.Dirty[4] = true
		res.DirtyRects[4] = world.FullChunkDirty()
	}
	return res
}
