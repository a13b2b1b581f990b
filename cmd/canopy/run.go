package main

import (
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/internal/debugsrv"
	"github.com/spf13/cobra"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		watch      bool
		debug      bool
		scriptPath string
		shotDir    string
	)

	cmd := &cobra.Command{
		Use:   "run [scene.yaml]",
		Short: "Open a window showing the scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(flags)
			if err != nil {
				return err
			}
			v, err := newViewer(cfg, log, scenePath(cfg, args))
			if err != nil {
				return err
			}
			defer v.close()
			v.scene.SetDebugMode(debug)
			if shotDir != "" {
				v.scene.SetScreenshotDir(shotDir)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := v.render(ctx); err != nil {
				return err
			}
			if scriptPath != "" {
				runner, err := loadScript(scriptPath)
				if err != nil {
					return err
				}
				v.scene.SetScriptRunner(runner)
			}

			if cfg.DebugAddr != "" {
				srv := debugsrv.New(v.root, v.reg, log.With().Str("subsystem", "debugsrv").Logger())
				go func() {
					if err := srv.ListenAndServe(ctx, cfg.DebugAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Msg("debug server stopped")
					}
				}()
			}

			frame := 0
			v.scene.SetUpdateFunc(func() error {
				if err := ctx.Err(); err != nil {
					v.scene.Destroy()
					return nil
				}
				frame++
				// Poll roughly once a second.
				if watch && frame%cfg.TPS == 0 {
					return v.reloadIfChanged(ctx)
				}
				return nil
			})

			return canopy.Run(v.scene, canopy.RunConfig{
				Title:  cfg.Title,
				Width:  cfg.Width,
				Height: cfg.Height,
				TPS:    cfg.TPS,
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when the scene file changes")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable scene debug checks and frame stats")
	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML input script to play")
	cmd.Flags().StringVar(&shotDir, "screenshots", "", "directory for script screenshots (default \"screenshots\")")

	return cmd
}
