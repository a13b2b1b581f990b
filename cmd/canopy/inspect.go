package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/tree"
	"github.com/spf13/cobra"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		frames     int
		clicks     []string
		scriptPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [scene.yaml]",
		Short: "Step the scene headless and print the mounted tree",
		Long: `inspect renders the scene file without opening a window, steps the
scene for the given number of frames (playing clicks or an input script),
logs declared events, and prints the resulting component tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frames") {
				cfg.Frames = frames
			}
			v, err := newViewer(cfg, log, scenePath(cfg, args))
			if err != nil {
				return err
			}
			defer v.close()

			if err := v.render(cmd.Context()); err != nil {
				return err
			}

			steps := make([]canopy.ScriptStep, 0, len(clicks))
			for _, c := range clicks {
				x, y, err := parsePoint(c)
				if err != nil {
					return err
				}
				steps = append(steps, canopy.ScriptStep{Action: "click", X: x, Y: y})
			}
			switch {
			case scriptPath != "":
				runner, err := loadScript(scriptPath)
				if err != nil {
					return err
				}
				v.scene.SetScriptRunner(runner)
			case len(steps) > 0:
				v.scene.SetScriptRunner(canopy.NewScriptRunner(steps...))
			}

			dt := 1 / float64(cfg.TPS)
			for i := 0; i < cfg.Frames; i++ {
				v.scene.Step()
				v.scene.Update(dt)
			}
			log.Info().Int("frames", cfg.Frames).Str("mode", v.scene.Mode().String()).Msg("inspect done")

			return printTree(cmd.OutOrStdout(), v.root, asJSON)
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames to step (default from config)")
	cmd.Flags().StringArrayVar(&clicks, "click", nil, "inject a click at x,y (repeatable)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML input script to play")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")

	return cmd
}

func parsePoint(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("click %q: want x,y", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return 0, 0, fmt.Errorf("click %q: %w", s, err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return 0, 0, fmt.Errorf("click %q: %w", s, err)
	}
	return x, y, nil
}

func loadScript(path string) (*canopy.ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input script: %w", err)
	}
	return canopy.LoadScript(data)
}

func printTree(w io.Writer, root *tree.Root, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root.Snapshot())
	}
	var err error
	root.Walk(func(depth int, n tree.NodeInfo) {
		if err != nil {
			return
		}
		line := strings.Repeat("  ", depth) + n.Component
		if n.Key != "" {
			line += " key=" + n.Key
		}
		if !n.Mounted {
			line += " (not mounted)"
		} else if len(n.Props) > 0 {
			line += " [" + strings.Join(n.Props, " ") + "]"
		}
		_, err = fmt.Fprintln(w, line)
	})
	return err
}
