// Command sandworld is a small demo binary that wires a world.World, a
// loader, the simplefill generator and a toy gravity kernel together and
// ticks it at 20Hz, logging TPS periodically.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dm-vev/sandcore/server/world"
)

func main() {
	configPath := flag.String("config", "sandworld.toml", "path to the TOML config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	uc, err := readUserConfig(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	conf, err := uc.Config(log)
	if err != nil {
		log.Error("build world config", "err", err)
		os.Exit(1)
	}
	conf.Kernel = toyGravityKernel{}

	w := conf.New()
	defer func() {
		if err := w.Close(); err != nil {
			log.Error("close world", "err", err)
		}
	}()

	loader := world.NewLoader(mgl64.Vec2{0, 0}, uc.Loader.ScreenWidth, uc.Loader.ScreenHeight)
	w.Exec(func(tx *world.Tx) {
		tx.AddLoader(loader)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	statusEvery := time.NewTicker(5 * time.Second)
	defer statusEvery.Stop()

	log.Info("sandworld starting", "config", *configPath, "seed", uc.World.Seed)
	for {
		select {
		case <-ctx.Done():
			log.Info("sandworld shutting down")
			return
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				log.Error("tick failed", "err", err)
				return
			}
		case <-statusEvery.C:
			var loaded int
			w.Exec(func(tx *world.Tx) { loaded = tx.Loaded() })
			log.Info("status", "tps", w.TPS(), "loaded_chunks", loaded, "tick", w.TickTime())
		}
	}
}
