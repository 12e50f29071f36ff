package world

import "github.com/go-gl/mathgl/mgl64"

// Zones is the four nested rectangles a loader derives from its position
// and screen size. screen ⊆ active ⊆ load ⊆ unload, each inflated by a
// multiple of ChunkSize.
type Zones struct {
	Screen, Active, Load, Unload Rect
}

// ZoneCalculator derives Zones from a loader's world-space position and
// screen size.
type ZoneCalculator struct{}

// centered builds a w×h rect centered on pos.
func centered(pos mgl64.Vec2, w, h int32) Rect {
	return Rect{
		X: int32(pos.X()) - w/2,
		Y: int32(pos.Y()) - h/2,
		W: w,
		H: h,
	}
}

// Compute returns the four zones for a loader at pos with the given screen
// dimensions.
func (ZoneCalculator) Compute(pos mgl64.Vec2, screenW, screenH int32) Zones {
	return Zones{
		Screen: centered(pos, screenW, screenH),
		Active: centered(pos, screenW+2*ChunkSize, screenH+2*ChunkSize),
		Load:   centered(pos, screenW+10*ChunkSize, screenH+10*ChunkSize),
		Unload: centered(pos, screenW+20*ChunkSize, screenH+20*ChunkSize),
	}
}
