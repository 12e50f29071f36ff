// Package txguard runs callbacks against a world.World's transaction under
// recover, so a kernel/generator/observer hook racing a World.Close sees a
// clean failure instead of propagating the close panic.
package txguard

import "github.com/dm-vev/sandcore/server/world"

// Run executes fn via w.Exec, returning false instead of panicking if w has
// already been closed.
func Run(w *world.World, fn func(tx *world.Tx)) (ok bool) {
	if w == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			if msg, str := r.(string); str && msg == world.ClosedPanicMessage {
				ok = false
				return
			}
			panic(r)
		}
	}()
	w.Exec(fn)
	return true
}

// Value is Run for callbacks that produce a value.
func Value[T any](w *world.World, fn func(tx *world.Tx) T) (value T, ok bool) {
	ok = Run(w, func(tx *world.Tx) {
		value = fn(tx)
	})
	return
}
