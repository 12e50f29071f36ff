package world

import "math"

// ChunkCoord identifies a chunk in the infinite grid.
type ChunkCoord struct {
	X, Y int32
}

// ChunkId is the 32-bit Cantor-paired encoding of a ChunkCoord. The
// encoding is fixed by the nat/Cantor scheme below and must never change,
// since literal id values are load-bearing test vectors.
type ChunkId uint32

// natEncode maps ℤ to ℕ: 2i for i ≥ 0, -2i-1 otherwise.
func natEncode(i int32) uint64 {
	if i >= 0 {
		return 2 * uint64(i)
	}
	return 2*uint64(-int64(i)) - 1
}

// natDecode inverts natEncode.
func natDecode(n uint64) int32 {
	if n%2 == 0 {
		return int32(n / 2)
	}
	return int32(-int64((n + 1) / 2))
}

// CoordToID computes the ChunkId for coord, or a CoordOutOfRangeError if the
// Cantor pairing would overflow uint32.
func CoordToID(coord ChunkCoord) (ChunkId, error) {
	xx, yy := natEncode(coord.X), natEncode(coord.Y)
	s := xx + yy
	// s(s+1) can overflow uint64 for adversarial 32-bit inputs; widen the
	// multiply before the overflow check.
	hi, lo := bits64Mul(s, s+1)
	if hi != 0 {
		return 0, CoordOutOfRangeError{X: coord.X, Y: coord.Y}
	}
	id := lo/2 + yy
	if id > math.MaxUint32 {
		return 0, CoordOutOfRangeError{X: coord.X, Y: coord.Y}
	}
	return ChunkId(id), nil
}

// bits64Mul returns the 128-bit product a*b as (hi, lo).
func bits64Mul(a, b uint64) (hi, lo uint64) {
	const mask32 = 0xffffffff
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t := aLo * bLo
	w0 := t & mask32
	k := t >> 32

	t = aHi*bLo + k
	w1 := t & mask32
	w2 := t >> 32

	t = aLo*bHi + w1
	k = t >> 32

	hi = aHi*bHi + w2 + k
	lo = (t << 32) | w0
	return hi, lo
}

// IDToCoord inverts CoordToID. Callers must only pass ids produced by
// CoordToID or otherwise known representable.
func IDToCoord(id ChunkId) ChunkCoord {
	v := uint64(id)
	w := uint64((math.Sqrt(8*float64(v)+1) - 1) / 2)
	// float64 rounding can land w one off; correct it.
	for w*(w+1)/2 > v {
		w--
	}
	for (w+1)*(w+2)/2 <= v {
		w++
	}
	t := w * (w + 1) / 2
	yy := v - t
	xx := w - yy
	return ChunkCoord{X: natDecode(xx), Y: natDecode(yy)}
}

// StateKind is a chunk's lifecycle tag.
type StateKind uint8

const (
	NotGenerated StateKind = iota
	Generating
	Cached
	Active
)

func (k StateKind) String() string {
	switch k {
	case NotGenerated:
		return "NotGenerated"
	case Generating:
		return "Generating"
	case Cached:
		return "Cached"
	case Active:
		return "Active"
	default:
		return "Unknown"
	}
}

// State is a chunk's full lifecycle state; Stage is meaningful only when
// Kind == Generating.
type State struct {
	Kind  StateKind
	Stage uint8
}

func (s State) String() string {
	if s.Kind == Generating {
		return "Generating(" + itoa(int(s.Stage)) + ")"
	}
	return s.Kind.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// readyForSimulation reports whether a neighbor in state s counts as
// "Cached or Active" for lifecycle/generation gating.
func (s State) readyForSimulation() bool {
	return s.Kind == Cached || s.Kind == Active
}

// readyForStage reports whether a neighbor in state s satisfies the stage-s
// generation gate (Cached/Active, or Generating at stage ≥ minStage).
func (s State) readyForStage(minStage uint8) bool {
	if s.Kind == Cached || s.Kind == Active {
		return true
	}
	if s.Kind == Generating {
		return s.Stage >= minStage
	}
	return false
}
