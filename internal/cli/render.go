package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brushlink/pkg/config"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // directory the artifacts are written to
	formats string  // comma-separated output formats
	script  string  // interaction script replayed before rendering; "-" reads stdin
	views   []string
	style   string
	scale   float64 // PNG scale factor
	title   string
	width   float64 // container width override for every view
	height  float64 // container height override for every view
	indent  bool
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [data.csv]",
		Short: "Render the linked views after replaying an interaction script",
		Long: `Render the linked views of a dataset to files.

The dataset is read from the given delimited file, or from the [data] section
of the config file (a file path or a MongoDB collection). An optional script
replays brushing before rendering, one command per line:

  drag  scatter 120 80 400 300       # rectangle brush in pixels
  range parallel Temperature 15 25   # axis brush in data units
  axis  parallel Humidity 100 200    # axis brush in pixels
  config scatter x=Humidity color=Seasons
  resize parallel 1200 500
  clear [view [axis]]

One file per view and format is written to the output directory, named
<view>.<format>. Results are cached; --refresh forces a re-render.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data string
			if len(args) == 1 {
				data = args[0]
			}
			return c.runRender(cmd.Context(), data, &opts, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.script, "script", "s", "", "interaction script to replay (- for stdin)")
	cmd.Flags().StringSliceVar(&opts.views, "views", nil, "views to render (default all)")
	cmd.Flags().StringVar(&opts.style, "style", "", "visual style: simple, dark (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.title, "title", "", "title embedded in SVG output")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "container width of every view")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "container height of every view")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

// runRender loads the dataset, replays the script and writes every artifact.
func (c *CLI) runRender(ctx context.Context, data string, ro *renderOpts, stdin io.Reader) error {
	logger := loggerFromContext(ctx)

	formats := parseFormats(ro.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applySize(&cfg, ro.width, ro.height)
	src, err := cfg.Source(data)
	if err != nil {
		return err
	}

	script, err := readScript(ro.script, stdin)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Config:  &cfg,
		Views:   ro.views,
		Formats: formats,
		Style:   ro.style,
		Scale:   ro.scale,
		Title:   ro.title,
		Indent:  ro.indent,
		Refresh: ro.refresh,
		Script:  script,
		Logger:  logger,
	}

	runner, err := c.newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger.Infof("Rendering %s", src)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", src))
	spinner.Start()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, src, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(result.Artifacts)))

	paths, err := writeArtifacts(ro.output, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", src)
	printStats(result.Stats.Records, result.Stats.Selected, result.Stats.Events, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// applySize overrides the container size of both views. Zero keeps the
// configured size.
func applySize(cfg *config.Config, width, height float64) {
	for _, vc := range []*config.ViewConfig{&cfg.Scatter, &cfg.Parallel} {
		if width > 0 {
			vc.Width = width
		}
		if height > 0 {
			vc.Height = height
		}
	}
}

// readScript parses the script at path. An empty path means no script.
func readScript(path string, stdin io.Reader) ([]dashboard.Event, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return dashboard.ParseScript(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	events, err := dashboard.ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// writeArtifacts writes each artifact to dir under its artifact name and
// returns the written paths in name order.
func writeArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	var paths []string
	for _, name := range slices.Sorted(maps.Keys(artifacts)) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
