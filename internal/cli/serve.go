package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/arkroute/internal/devserver"
	"github.com/vvka-141/arkroute/internal/metrics"
	"github.com/vvka-141/arkroute/internal/pipeline"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

var serveCmd = &cobra.Command{
	Use:   "serve [module_dir]",
	Short: "Watch the module and serve the live route table over HTTP",
	Long: `Everything watch does, plus a local HTTP server:

  GET /routes   current route table (same JSON as route_map.json)
  GET /ws       websocket; one message per finished run
  GET /metrics  Prometheus metrics of this session
  GET /healthz  liveness

The listen address comes from --addr, ARKROUTE_SERVE_ADDR or serve.addr in
arkroute.yaml (default ` + arkroute.DefaultServeAddr + `).

Examples:
  arkroute serve
  arkroute serve ./entry --addr 127.0.0.1:9000`,
	Args:              OptionalModuleDir,
	ValidArgsFunction: completeModuleDir,
	RunE:              runServe,
}

type serveOptions struct {
	watchOptions
	addr string
}

var serveFlags serveOptions

func init() {
	rootCmd.AddCommand(serveCmd)

	serveFlags.module.register(serveCmd)
	serveCmd.Flags().DurationVar(&serveFlags.debounce, "debounce", arkroute.DefaultWatchDebounce, "Quiet period before a change triggers a run")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address (default "+arkroute.DefaultServeAddr+")")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	moduleDir, err := moduleDirArg(args)
	if err != nil {
		return fmt.Errorf("%v: %w", err, arkroute.ErrInvalidConfig)
	}
	cfg, projectCfg, err := resolveModule(moduleDir, serveFlags.module, logger)
	if err != nil {
		return err
	}

	addr := serveFlags.addr
	if addr == "" {
		addr = projectCfg.Serve.Addr
	}
	if addr == "" {
		addr = arkroute.DefaultServeAddr
	}

	collector := metrics.New()
	server := devserver.New(
		devserver.WithMetrics(collector.Handler()),
		devserver.WithLogger(logger))

	report := reportRun(cmd.OutOrStdout(), cfg)
	publish := func(res *pipeline.Result, err error) {
		report(res, err)
		snap := devserver.Snapshot{Err: err}
		if res != nil {
			snap.RunID = res.RunID
			snap.Table = res.Registry.Table
		}
		server.Publish(snap)
	}

	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.Go(func() error {
		return server.ListenAndServe(ctx, addr)
	})
	g.Go(func() error {
		return newWatchSession(cfg, collector, serveFlags.debounce, logger).run(ctx, publish)
	})
	return g.Wait()
}
