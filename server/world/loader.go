package world

import "github.com/go-gl/mathgl/mgl64"

// Loader anchors the zones used to stream chunks in and out. A world
// may have any number of loaders; each is independent, and a chunk is kept
// if any loader's relevant zone intersects it.
type Loader struct {
	pos               mgl64.Vec2
	screenW, screenH  int32
}

// NewLoader creates a Loader at pos with the given screen dimensions.
func NewLoader(pos mgl64.Vec2, screenW, screenH int32) *Loader {
	return &Loader{pos: pos, screenW: screenW, screenH: screenH}
}

// Move updates the loader's world-space position.
func (l *Loader) Move(pos mgl64.Vec2) { l.pos = pos }

// Position returns the loader's current world-space position.
func (l *Loader) Position() mgl64.Vec2 { return l.pos }

// Zones computes the loader's screen/active/load/unload rectangles.
func (l *Loader) Zones() Zones {
	return ZoneCalculator{}.Compute(l.pos, l.screenW, l.screenH)
}
