package canopy

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// TPS is the update rate. Zero means ebiten's default of 60.
	TPS int
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	dt    float64
}

func (g *game) Update() error {
	if g.scene.updateFunc != nil {
		if err := g.scene.updateFunc(); err != nil {
			return err
		}
	}
	if g.scene.runner != nil {
		g.scene.runner.step(g.scene)
	}
	g.scene.Update(g.dt)
	if g.scene.destroyed {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the scene until the window is closed, the
// update func returns an error, or the scene is destroyed. Real mouse input
// is read only while Run is active.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = defaultViewportWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultViewportHeight
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)

	scene.SetViewport(cfg.Width, cfg.Height)
	scene.liveInput = true
	defer func() { scene.liveInput = false }()

	err := ebiten.RunGame(&game{scene: scene, dt: 1 / float64(tps)})
	if err == ebiten.Termination {
		return nil
	}
	return err
}
