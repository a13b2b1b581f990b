package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/phanxgames/canopy/bind"
	"github.com/phanxgames/canopy/components"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

func schemasCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schemas [component...]",
		Short: "Describe the registered components",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = components.Names()
			}
			infos := make([]bind.SchemaInfo, 0, len(names))
			for _, name := range names {
				c, ok := components.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown component %q", name)
				}
				infos = append(infos, c.Info())
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.NativeType)
				fmt.Fprintf(tw, "  props\t%s\n", strings.Join(info.Props, " "))
				if len(info.ReadonlyProps) > 0 {
					fmt.Fprintf(tw, "  readonly\t%s\n", strings.Join(info.ReadonlyProps, " "))
				}
				if len(info.EventProps) > 0 {
					events := make([]string, 0, len(info.EventProps))
					for prop := range info.EventProps {
						events = append(events, prop)
					}
					sort.Strings(events)
					fmt.Fprintf(tw, "  events\t%s\n", strings.Join(events, " "))
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			v := buildVersion()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "canopy %s (%s %s/%s)\n", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version")
	return cmd
}

// buildVersion returns the linker-set version, else the module version from
// the build info, in canonical semver form when it is one.
func buildVersion() string {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			v = info.Main.Version
		}
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return version
	}
	return semver.Canonical(v)
}
