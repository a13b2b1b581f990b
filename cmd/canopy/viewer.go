package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
	"github.com/phanxgames/canopy/components"
	"github.com/phanxgames/canopy/internal/config"
	"github.com/phanxgames/canopy/internal/metrics"
	"github.com/phanxgames/canopy/internal/scenefile"
	"github.com/phanxgames/canopy/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// viewer drives one scene from one scene file.
type viewer struct {
	cfg   config.Config
	log   zerolog.Logger
	scene *canopy.Scene
	root  *tree.Root
	reg   *prometheus.Registry

	path    string
	file    *scenefile.File
	modTime time.Time
}

func newViewer(cfg config.Config, log zerolog.Logger, path string) (*viewer, error) {
	if path == "" {
		return nil, fmt.Errorf("no scene file given")
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	scene := canopy.NewScene()
	scene.SetLogger(log)
	scene.SetViewport(cfg.Width, cfg.Height)

	engine := bind.NewEngine(
		bind.WithLogger(log.With().Str("subsystem", "bind").Logger()),
		bind.WithMetrics(metrics.New(reg)),
	)
	ctx := bind.LoggerKey.With(components.Attach(scene), log)

	v := &viewer{
		cfg:   cfg,
		log:   log,
		scene: scene,
		root:  tree.NewRoot(engine, ctx),
		reg:   reg,
		path:  path,
	}
	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *viewer) load() error {
	info, err := os.Stat(v.path)
	if err != nil {
		return fmt.Errorf("stat scene file: %w", err)
	}
	f, err := scenefile.Load(v.path)
	if err != nil {
		return err
	}
	v.file = f
	v.modTime = info.ModTime()
	return nil
}

// render reconciles the tree with the current scene file.
func (v *viewer) render(ctx context.Context) error {
	stats, err := v.root.Render(ctx, v.file.Build(v.handler)...)
	v.log.Debug().
		Int("mounted", stats.Mounted).
		Int("updated", stats.Updated).
		Int("unmounted", stats.Unmounted).
		Int("skipped", stats.Skipped).
		Msg("rendered")
	return err
}

// reloadIfChanged re-reads the scene file when its modification time moved
// and renders it. A file that fails to parse keeps the previous tree.
func (v *viewer) reloadIfChanged(ctx context.Context) error {
	info, err := os.Stat(v.path)
	if err != nil || !info.ModTime().After(v.modTime) {
		return nil
	}
	if err := v.load(); err != nil {
		v.log.Warn().Err(err).Msg("scene file reload failed")
		return nil
	}
	v.log.Info().Str("path", v.path).Msg("scene file reloaded")
	return v.render(ctx)
}

// handler logs every declared event.
func (v *viewer) handler(component, key, event string) func(args ...any) {
	return func(args ...any) {
		ev := v.log.Info().Str("component", component).Str("event", event)
		if key != "" {
			ev = ev.Str("key", key)
		}
		for _, a := range args {
			if ie, ok := a.(canopy.InteractionEvent); ok {
				ev = ev.Float64("lon", ie.Position.Longitude).Float64("lat", ie.Position.Latitude)
			}
		}
		ev.Msg("event")
	}
}

func (v *viewer) close() {
	v.root.Unmount(context.Background())
	v.scene.Destroy()
}
