package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tabwarden/tabwarden/internal/bridge"
	"github.com/tabwarden/tabwarden/internal/config"
	"github.com/tabwarden/tabwarden/internal/engine"
	"github.com/tabwarden/tabwarden/internal/heatmap"
	"github.com/tabwarden/tabwarden/internal/ipc"
	"github.com/tabwarden/tabwarden/internal/stats"
	"github.com/tabwarden/tabwarden/internal/store"
	"github.com/tabwarden/tabwarden/internal/syswatch"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

func main() {
	// optional .env next to the binary, used for the redis backend
	godotenv.Load()

	// check for argument to determine config location
	argPath := defaultConfigPath()
	if len(os.Args) > 1 {
		argPath = os.Args[1]
	}
	log.Println("Using config file at:", argPath)
	cfg, err := config.LoadConfigFromFile(argPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	st, err := store.NewStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize store:", err)
	}
	defer st.Close()

	trackerMgr, err := tracker.NewManager(st, cfg.Tracker.ExcludedPrefixes)
	if err != nil {
		log.Fatal("Failed to initialize tracker:", err)
	}

	var sampler *heatmap.Sampler
	if *cfg.Heatmap.Enabled {
		sampler, err = heatmap.NewSampler(st, heatmap.Options{
			SampleInterval: cfg.Heatmap.SampleInterval.Std(),
			FlushInterval:  cfg.Heatmap.FlushInterval.Std(),
			MaxPoints:      cfg.Heatmap.MaxPoints,
			Retention:      cfg.Heatmap.Retention.Std(),
		})
		if err != nil {
			log.Fatal("Failed to initialize heatmap sampler:", err)
		}
	}

	projector, err := stats.NewProjector(cfg.Storage.DBPath)
	if err != nil {
		log.Println("Domain stats projection disabled:", err)
		projector = nil
	} else {
		defer projector.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	var wg sync.WaitGroup

	// Start the extension bridge (WebSocket endpoint the extension connects to)
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("Listening for extension events on", cfg.Bridge.Listen)
		// an explicit nil keeps the dispatcher's interface nil when the
		// heatmap variant is off
		var src bridge.Sampler
		if sampler != nil {
			src = sampler
		}
		server := bridge.NewServer(cfg.Bridge.Listen, bridge.NewDispatcher(trackerMgr, src))
		if err := server.Run(ctx); err != nil {
			log.Println("bridge server error:", err)
		}
	}()

	// Start the cursor sampler loop
	if sampler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sampler.Run(ctx); err != nil {
				log.Println("cursor sampler error:", err)
			}
		}()
	}

	// Start the logind watcher (system D-Bus); tracking still works without it
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("Monitoring dbus for sleep and lock changes...")
		if err := syswatch.Watch(ctx, trackerMgr); err != nil {
			log.Println("logind watcher error:", err)
		}
	}()

	// Start the twctl-facing D-Bus service
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("Opening session D-Bus service...")
		var src ipc.HeatmapSource
		if sampler != nil {
			src = sampler
		}
		svc := &ipc.TrackerService{Tracker: trackerMgr, Heatmap: src, Projector: projector}
		if err := ipc.Serve(ctx, svc); err != nil {
			log.Println("tabwarden service error:", err)
		}
	}()

	// Start the flush engine (periodic persist + domain projection)
	wg.Add(1)
	go func() {
		defer wg.Done()
		var fl engine.Flusher
		if sampler != nil {
			fl = sampler
		}
		eng := engine.NewEngine(trackerMgr, fl, projector, st, cfg.Tracker.FlushInterval.Std())
		if err := eng.Run(ctx); err != nil {
			log.Println("flush engine error:", err)
		}
	}()

	wg.Wait()
	fmt.Println("Shutdown complete")
}

func defaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tabwarden", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tabwarden", "config.toml")
}
