package world

import "github.com/segmentio/fasthash/fnv1a"

// applyKernelResult runs after a kernel dispatch on center returns res: it
// cross-propagates graphics-dirty flags and dirty
// rects into the 3×3 neighborhood. centerOldDirty is the center's pre-tick
// dirty rect snapshot (always Ok, since a task is only dispatched when it
// was).
func applyKernelResult(store *ChunkStore, center ChunkCoord, centerOldDirty DirtyRect, res KernelResult) {
	neighbors, ok := store.Borrow9(center)
	if !ok {
		return
	}
	for i, nc := range neighbors {
		if nc == nil {
			continue
		}
		if res.Dirty[i] {
			nc.graphicsDirty = true
		}
		if i != 4 && centerOldDirty.Ok {
			// A center update with any changes can propagate effects into
			// any border pixel of its neighbors; conservatively mark them
			// fully dirty rather than tracking the exact affected border.
			nc.markFullyDirty()
		}
		if res.DirtyRects[i].Ok {
			nc.markDirty(res.DirtyRects[i].Rect)
		}
	}
}

// touchedSet hashes the nine chunk ids a phase task would lease into a
// scratch set, used by assertPhaseDisjoint to verify no two tasks in the
// same phase share a chunk — a debug-only check, since the phase-coloring
// property already guarantees this statically.
type touchedSet map[uint64]ChunkCoord

func newTouchedSet() touchedSet { return make(touchedSet) }

func touchKey(id ChunkId) uint64 {
	return fnv1a.HashUint64(uint64(id))
}

// add records that center's 3×3 neighborhood is leased by one task. It
// returns the coord of a conflicting prior lease, if any.
func (t touchedSet) add(store *ChunkStore, center ChunkCoord) (ChunkCoord, bool) {
	n, ok := store.Borrow9(center)
	if !ok {
		return ChunkCoord{}, false
	}
	for i, off := range neighborOffsets {
		c := n[i]
		if c == nil {
			continue
		}
		id, err := CoordToID(ChunkCoord{X: center.X + off[0], Y: center.Y + off[1]})
		if err != nil {
			continue
		}
		key := touchKey(id)
		if prior, ok := t[key]; ok {
			return prior, true
		}
		t[key] = center
	}
	return ChunkCoord{}, false
}

// assertPhaseDisjoint panics if any two tasks' 3×3 neighborhoods in one
// phase overlap. Intended for use behind Config.DebugAssertDisjoint in
// tests, not the hot path.
func assertPhaseDisjoint(store *ChunkStore, coords []ChunkCoord) {
	seen := newTouchedSet()
	for _, c := range coords {
		if conflict, ok := seen.add(store, c); ok {
			panic("world: phase disjointness violated between " + conflict.String() + " and " + c.String())
		}
	}
}

func (c ChunkCoord) String() string {
	return "(" + itoa(int(c.X)) + ", " + itoa(int(c.Y)) + ")"
}
