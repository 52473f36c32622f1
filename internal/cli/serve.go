package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brushlink/internal/server"
	"github.com/matzehuels/brushlink/pkg/config"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/observability"
	"github.com/matzehuels/brushlink/pkg/observability/prom"
)

type serveOpts struct {
	addr      string
	data      string
	noMetrics bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve linked-view sessions over HTTP",
		Long: `Serve linked-view sessions over HTTP.

Each session owns a dataset, both views and the shared selection. Hosts send
pointer, axis and config events and fetch rendered views as SVG or JSON.
Sessions load the --data file (or the [data] section of the config) unless
the client uploads CSV with the create request.

Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "dataset every new session loads")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, so serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if so.addr != "" {
		cfg.Server.Addr = so.addr
	}

	src, err := serveSource(cfg, so.data)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithConfig(cfg),
		server.WithSource(src),
		server.WithLogger(c.Logger),
	}
	if !so.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom.New(reg).Register()
		defer observability.Reset()
		opts = append(opts, server.WithGatherer(reg))
	}

	srv, err := server.New(opts...)
	if err != nil {
		return err
	}

	if src == nil {
		printWarning("No dataset configured: clients must upload CSV when creating a session")
	} else {
		printInfo("Sessions load %s", src)
	}
	printSuccess("Listening on %s", cfg.Server.Addr)
	printKeyValue("session ttl", cfg.Server.SessionTTL.String())
	printKeyValue("max sessions", fmt.Sprint(cfg.Server.MaxSessions))
	if !so.noMetrics {
		printKeyValue("metrics", "/metrics")
	}

	err = srv.ListenAndServe(ctx, cfg.Server.Addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveSource returns nil when neither a file nor a config source is set.
func serveSource(cfg config.Config, data string) (dataset.Source, error) {
	if data == "" && cfg.Data.Path == "" && cfg.Data.Mongo == nil {
		return nil, nil
	}
	return cfg.Source(data)
}
