package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brushlink/pkg/dashboard"
	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/render"
	"github.com/matzehuels/brushlink/pkg/render/topology"
)

type topologyOpts struct {
	output   string
	format   string
	script   string
	detailed bool
}

// topologyCommand creates the topology debug command.
func (c *CLI) topologyCommand() *cobra.Command {
	opts := topologyOpts{format: "svg"}

	cmd := &cobra.Command{
		Use:   "topology [data.csv]",
		Short: "Draw how views, the selection store and dimensions are wired",
		Long: `Draw the wiring of the configured dashboard as a Graphviz diagram.

Each view links to the dimensions of its channels and to the selection store
it commits to and is notified by. With a dataset, dimension kinds come from the
data and an optional script is replayed so the store node shows the resulting
selection. Without one, kinds come from the classifier alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data string
			if len(args) == 1 {
				data = args[0]
			}
			return c.runTopology(cmd.Context(), data, opts, cmd.OutOrStdout(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default topology.<format>, stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, png, pdf")
	cmd.Flags().StringVarP(&opts.script, "script", "s", "", "interaction script replayed after loading")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show dimension kinds and categorical orders")

	return cmd
}

func (c *CLI) runTopology(ctx context.Context, data string, opts topologyOpts, stdout io.Writer, stdin io.Reader) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	d, err := dashboard.New(
		dashboard.WithClassifier(cfg.BuildClassifier()),
		dashboard.WithViews(cfg.ViewSpecs()...),
		dashboard.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer d.Close()

	if data != "" || cfg.Data.Path != "" || cfg.Data.Mongo != nil {
		src, err := cfg.Source(data)
		if err != nil {
			return err
		}
		if err := d.Load(ctx, src); err != nil {
			return err
		}
		script, err := readScript(opts.script, stdin)
		if err != nil {
			return err
		}
		if err := d.ApplyAll(ctx, script); err != nil {
			return err
		}
	} else if opts.script != "" {
		return brerrors.New(brerrors.ErrCodeInvalidInput, "--script needs a dataset")
	}

	dot := topology.ToDOT(topology.FromDashboard(d), topology.Options{Detailed: opts.detailed})
	out, err := topologyArtifact(dot, opts.format)
	if err != nil {
		return err
	}

	if opts.output == "" && opts.format == "dot" {
		_, err := io.WriteString(stdout, dot)
		return err
	}
	path := opts.output
	if path == "" {
		path = "topology." + opts.format
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Generated topology")
	printFile(path)
	return nil
}

func topologyArtifact(dot, format string) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return topology.RenderSVG(dot)
	case "png", "pdf":
		svg, err := topology.RenderSVG(dot)
		if err != nil {
			return nil, err
		}
		if format == "png" {
			return render.ToPNG(svg, 2)
		}
		return render.ToPDF(svg)
	}
	return nil, brerrors.New(brerrors.ErrCodeInvalidFormat, "unknown topology format %q (want svg, dot, png or pdf)", format)
}
