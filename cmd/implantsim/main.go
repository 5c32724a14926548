package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/experiment"
	"github.com/san-kum/implantsim/internal/storage"
	"github.com/san-kum/implantsim/internal/tui"
)

var (
	dataDir  string
	logLevel string

	configFile  string
	preset      string
	assignments []string
	samples     int
	plotMode    string
	plot3D      bool
	outPath     string

	chartMode  string
	chartScale string

	fitMetric string
	fitTarget float64
	fitVary   []string

	addr string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "implantsim",
		Short:         "dental implant drug release simulator",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".implantsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [kind]",
		Short: "run a simulation and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringArrayVar(&assignments, "set", nil, "parameter override name=value (repeatable)")
	runCmd.Flags().IntVar(&samples, "samples", 0, "sample count (0 uses the kind's resolution)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&plotMode, "plot", config.DefaultPlot, "terminal plot: 2d, 3d or none")
	runCmd.Flags().BoolVar(&plot3D, "3d", false, "shorthand for --plot 3d")
	runCmd.Flags().StringVar(&outPath, "out", "", "also write the series as CSV to this path")

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "list simulation kinds and their parameters",
		RunE:  listKinds,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets for a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for kind: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&outPath, "out", "", "output path (default: <title>.csv)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output path (default: stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a saved run as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVar(&chartMode, "mode", "2d", "chart mode: 2d or 3d")
	svgCmd.Flags().StringVar(&chartScale, "scale", "", "3D colour scale: viridis or plasma (default: plasma for surfaces)")
	svgCmd.Flags().StringVar(&outPath, "out", "", "output path (default: <run_id>.svg)")

	fitCmd := &cobra.Command{
		Use:   "fit [kind]",
		Short: "grid search parameters whose metric is closest to a target",
		Args:  cobra.ExactArgs(1),
		RunE:  fitKind,
	}
	fitCmd.Flags().StringVar(&fitMetric, "metric", "final", "metric to match")
	fitCmd.Flags().Float64Var(&fitTarget, "target", 0, "target metric value")
	fitCmd.Flags().StringArrayVar(&fitVary, "vary", nil, "parameter range name=lo:hi:n (repeatable)")
	fitCmd.Flags().StringArrayVar(&assignments, "set", nil, "fixed parameter name=value (repeatable)")
	fitCmd.Flags().IntVar(&samples, "samples", 0, "sample count (0 uses the kind's resolution)")
	_ = fitCmd.MarkFlagRequired("vary")

	compareCmd := &cobra.Command{
		Use:   "compare [kind] [preset]...",
		Short: "run presets of a kind side by side (all presets if none given)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  comparePresets,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the web interface and API",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	rootCmd.AddCommand(runCmd, kindsCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, fitCmd, compareCmd, serveCmd, tuiCmd)
	return rootCmd
}

func runTUI() error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	return tui.Run(experiment.NewRegistry(), tui.Options{Store: st})
}
