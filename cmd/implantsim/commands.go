package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/experiment"
	"github.com/san-kum/implantsim/internal/export"
	"github.com/san-kum/implantsim/internal/optim"
	"github.com/san-kum/implantsim/internal/storage"
	"github.com/san-kum/implantsim/internal/viz"
	"github.com/san-kum/implantsim/internal/web"
)

// runOptions are the command line inputs of "run"; zero values mean the flag
// was not given.
type runOptions struct {
	Kind       string
	Preset     string
	ConfigFile string
	Set        config.Params
	Samples    int
	Plot       string
	Out        string
}

// resolveConfig layers defaults, preset, config file and flags, in that
// order of increasing precedence.
func resolveConfig(o runOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Kind = o.Kind

	if o.Preset != "" {
		p := config.GetPreset(o.Kind, o.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.Preset, config.ListPresets(o.Kind))
		}
		cfg = cfg.Merge(p)
	}

	if o.ConfigFile != "" {
		file, err := config.Read(o.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if file.Kind != "" && file.Kind != o.Kind {
			return nil, fmt.Errorf("config %s is for kind %s, not %s", o.ConfigFile, file.Kind, o.Kind)
		}
		cfg = cfg.Merge(file)
	}

	cfg = cfg.Merge(&config.Config{Samples: o.Samples, Params: o.Set, Plot: o.Plot, Output: o.Out})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	set, err := config.ParseAssignments(assignments)
	if err != nil {
		return err
	}
	opts := runOptions{Kind: args[0], Preset: preset, ConfigFile: configFile, Set: set, Out: outPath}
	if cmd.Flags().Changed("samples") {
		opts.Samples = samples
	}
	if cmd.Flags().Changed("plot") {
		opts.Plot = plotMode
	}
	if plot3D {
		opts.Plot = "3d"
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	kind, err := registry.Get(cfg.Kind)
	if err != nil {
		return err
	}
	for _, spec := range kind.Params {
		if v, ok := cfg.Params[spec.Name]; ok && !spec.InRange(v) {
			logrus.WithFields(logrus.Fields{
				"param": spec.Name,
				"value": v,
				"min":   spec.Min,
				"max":   spec.Max,
			}).Warn("parameter outside the usual range")
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Kind)
	result, err := registry.Run(cmd.Context(), cfg.Kind, cfg.Params, cfg.Samples)
	if err != nil {
		return err
	}

	runID, err := st.Save(result)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"run": runID, "kind": result.Kind, "elapsed": result.Elapsed}).Info("run saved")

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", result.Samples)
	printParams(result.Params)
	printMetrics(result.Metrics)

	switch cfg.Plot {
	case "2d":
		fmt.Println()
		fmt.Println(viz.PlotSeries(result.Series, result.YLabel, 70, 15))
	case "3d":
		fmt.Println()
		fmt.Print(terminal3D(result))
	}

	if cfg.Output != "" {
		if err := writeCSV(cfg.Output, result.Table()); err != nil {
			return err
		}
		fmt.Printf("\nexported to %s\n", cfg.Output)
	}
	return nil
}

func terminal3D(res *experiment.Result) string {
	canvas := viz.NewCanvas(60, 20)
	pts, _ := res.Points3D()
	viz.Render3D(canvas, pts, viz.NewCamera())
	x, y, z := res.AxisLabels3D()
	return canvas.String() + fmt.Sprintf("x: %s  y: %s  z: %s\n", x, y, z)
}

func printParams(p config.Params) {
	fmt.Println("\nparams:")
	for _, name := range p.Names() {
		fmt.Printf("  %s: %g\n", name, p[name])
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listKinds(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tTITLE\tSAMPLES\tPARAMS")
	for _, k := range experiment.NewRegistry().Kinds() {
		params := make([]string, len(k.Params))
		for i, p := range k.Params {
			params[i] = fmt.Sprintf("%s=%g [%g,%g]", p.Name, p.Default, p.Min, p.Max)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", k.Name, k.Title, k.Samples, strings.Join(params, " "))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tSAMPLES\tFINAL")
	for _, run := range runs {
		final := "-"
		if v, ok := run.Metrics["final"]; ok {
			final = strconv.FormatFloat(v, 'f', 4, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			final,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *export.Table, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tbl, err := st.LoadTable(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, tbl, nil
}

func loadResult(runID string) (*storage.RunMetadata, *experiment.Result, error) {
	meta, tbl, err := loadRun(runID)
	if err != nil {
		return nil, nil, err
	}
	res, err := experiment.FromTable(meta.Kind, meta.Title, meta.Params, tbl)
	if err != nil {
		return nil, nil, err
	}
	res.Metrics = meta.Metrics
	return meta, res, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadResult(args[0])
	if err != nil {
		return err
	}
	if res.Series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("time: %s\n\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println(viz.PlotSeries(res.Series, res.YLabel, 70, 15))
	printMetrics(res.Metrics)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, tbl, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = export.FileName(meta.Title)
	}
	if err := writeCSV(path, tbl); err != nil {
		return err
	}
	fmt.Printf("exported %d rows to %s\n", tbl.Rows(), path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, tbl, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := output(outPath)
	if err != nil {
		return err
	}
	defer closeFn()

	return export.ExportJSON(w, export.RunExport{
		ID:      meta.ID,
		Kind:    meta.Kind,
		Title:   meta.Title,
		Samples: meta.Samples,
		Params:  meta.Params,
		Metrics: meta.Metrics,
		Columns: tbl.JSONColumns(),
	})
}

func svgRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadResult(args[0])
	if err != nil {
		return err
	}
	svg, err := res.ChartSVG(chartMode, chartScale)
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// parseRange parses "name=lo:hi:n".
func parseRange(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	parts := strings.Split(spec, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid range %q: want name=lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %s: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %s: %w", name, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("range %s: point count must be a positive integer", name)
	}
	return name, optim.Steps(lo, hi, n), nil
}

func fitKind(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	kind, err := registry.Get(args[0])
	if err != nil {
		return err
	}
	fixed, err := config.ParseAssignments(assignments)
	if err != nil {
		return err
	}

	ranges := make(map[string][]float64, len(fitVary))
	for _, v := range fitVary {
		name, values, err := parseRange(v)
		if err != nil {
			return err
		}
		ranges[name] = values
		fixed[name] = values[0]
	}
	if _, err := kind.Resolve(fixed); err != nil {
		return err
	}

	search := optim.NewGridSearch(ranges)
	fmt.Printf("searching %d points for %s %s = %g...\n", search.Points(), kind.Name, fitMetric, fitTarget)

	best, score, err := search.Search(cmd.Context(), fixed,
		optim.MetricTarget(registry, kind.Name, fitMetric, fitTarget, samples))
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"kind": kind.Name, "metric": fitMetric, "distance": score}).Info("fit complete")
	fmt.Printf("distance: %g\n", score)
	printParams(best)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	kind := args[0]
	names := args[1:]
	if len(names) == 0 {
		names = config.ListPresets(kind)
	}
	if len(names) == 0 {
		return fmt.Errorf("no presets for kind: %s", kind)
	}

	members := make([]experiment.Member, len(names))
	for i, name := range names {
		p := config.GetPreset(kind, name)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(kind))
		}
		members[i] = experiment.Member{Label: name, Params: p.Params, Samples: p.Samples}
	}

	results, err := experiment.NewEnsemble(experiment.NewRegistry(), kind, members).Run(cmd.Context())
	if err != nil {
		return err
	}

	metricNames := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		metricNames = append(metricNames, name)
	}
	sort.Strings(metricNames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PRESET\tSAMPLES\t%s\tPROFILE\n", strings.ToUpper(strings.Join(metricNames, "\t")))
	for i, res := range results {
		row := []string{members[i].Label, strconv.Itoa(res.Samples)}
		for _, name := range metricNames {
			row = append(row, strconv.FormatFloat(res.Metrics[name], 'g', 5, 64))
		}
		row = append(row, viz.Sparkline(res.Series.Values, 24))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.New(experiment.NewRegistry(), web.Options{})
	return srv.ListenAndServe(ctx, addr)
}

func writeCSV(path string, tbl *export.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tbl.WriteCSV(f)
}

// output returns stdout for an empty path.
func output(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
