package world

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Config configures a World. The zero value is not directly usable; call
// New to fill in defaults.
type Config struct {
	Log       *slog.Logger
	Provider  Provider
	Generator Generator
	Kernel    Kernel
	Settings  Settings
	// Seed is the world generation seed threaded into Generator.Generate
	// and Generator.Populate.
	Seed int64
	// Workers bounds the generation and simulation worker pools. ≤0 means
	// runtime.GOMAXPROCS(0).
	Workers int
	// DebugAssertDisjoint enables a per-phase runtime check that no two
	// dispatched tasks share a chunk in their 3×3 neighborhood. Costs an
	// extra store scan per phase; intended for tests, not production.
	DebugAssertDisjoint bool
}

func (conf Config) withDefaults() Config {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Provider == nil {
		conf.Provider = NopProvider{}
	}
	if conf.Generator == nil {
		conf.Generator = NopGenerator{}
	}
	if conf.Kernel == nil {
		conf.Kernel = NopKernel{}
	}
	if conf.Settings == (Settings{}) {
		conf.Settings = DefaultSettings()
	}
	conf.Settings = conf.Settings.withDefaults()
	if conf.Workers <= 0 {
		conf.Workers = runtime.GOMAXPROCS(0)
	}
	return conf
}

// New builds a World from conf, applying defaults for any unset field.
func (conf Config) New() *World {
	conf = conf.withDefaults()
	return &World{
		conf:    conf,
		store:   NewChunkStore(),
		queue:   NewLoadQueue(),
		metrics: newMetrics(),
	}
}

// World owns the chunk store, load queue, and loader set, and drives the
// per-tick lifecycle/generation/simulation sweeps. It is not safe for
// concurrent use: callers must serialise Exec and Tick calls onto a single
// goroutine.
type World struct {
	conf Config

	store    *ChunkStore
	queue    *LoadQueue
	loaders  []*Loader
	tickTime uint64

	metrics *metrics

	closeMu sync.Mutex
	closed  bool
}

// ClosedPanicMessage is the panic value Exec raises when called after Close,
// so callers using txguard can distinguish "ran after close" from a real
// bug in the callback.
const ClosedPanicMessage = "world.Tx: use of transaction after world close is not permitted"

// Exec runs f with exclusive access to the world's state via a Tx. It
// panics with ClosedPanicMessage if the world has already been closed.
func (w *World) Exec(f func(tx *Tx)) {
	w.closeMu.Lock()
	closed := w.closed
	w.closeMu.Unlock()
	if closed {
		panic(ClosedPanicMessage)
	}
	f(&Tx{w: w})
}

// TPS returns the world's rolling-average ticks-per-second.
func (w *World) TPS() float64 {
	return w.metrics.tps()
}

// Close releases the backing provider. It does not unload or save chunks;
// persistence-of-unloaded-chunks is explicitly out of core scope.
func (w *World) Close() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.conf.Provider.Close()
}

// tickInterval is the nominal tick duration a driver ticking at 20Hz
// targets; Tick itself doesn't sleep, a caller's ticker does.
const tickInterval = 50 * time.Millisecond

// Tick advances the world by one tick, running the ordered sweeps: queue,
// load, cache/active transitions (even ticks), generation, then
// simulation. Generation and simulation each run as an internal barrier;
// Tick blocks until both complete.
func (w *World) Tick(ctx context.Context) error {
	start := time.Now()
	defer func() {
		d := time.Since(start)
		w.metrics.observeTick(d)
		if d > tickInterval*2 {
			w.conf.Log.Warn("tick running behind", "took", d, "budget", tickInterval, "tick", w.tickTime)
		}
	}()

	w.tickTime++
	loaders := append([]*Loader(nil), w.loaders...)

	if w.conf.Settings.EnableLoadSweep {
		queueLoadZones(w, loaders)
		drainLoadQueue(w)
	}

	if w.conf.Settings.EnableLifecycleSweep && w.tickTime%2 == 0 {
		runCacheActiveSweep(w, loaders)
	}

	if w.conf.Settings.EnableGenerationSweep {
		if err := runGenerationSweep(ctx, w, loaders); err != nil {
			return err
		}
	}

	if w.conf.Settings.EnableSimulationSweep {
		if err := runSimulationSweep(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// TickTime returns the current tick counter.
func (w *World) TickTime() uint64 { return w.tickTime }
