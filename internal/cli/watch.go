package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/metrics"
	"github.com/vvka-141/arkroute/internal/pipeline"
	"github.com/vvka-141/arkroute/internal/tui"
	"github.com/vvka-141/arkroute/internal/watch"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

var watchCmd = &cobra.Command{
	Use:   "watch [module_dir]",
	Short: "Regenerate whenever .ets sources change",
	Long: `Run generate once, then again after every burst of .ets changes under the
scan directory. Changes inside the generated directory are ignored.

Stop with Ctrl+C.

Examples:
  arkroute watch
  arkroute watch ./entry --debounce 1s`,
	Args:              OptionalModuleDir,
	ValidArgsFunction: completeModuleDir,
	RunE:              runWatch,
}

type watchOptions struct {
	module   moduleFlags
	debounce time.Duration
}

var watchFlags watchOptions

func init() {
	rootCmd.AddCommand(watchCmd)

	watchFlags.module.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", arkroute.DefaultWatchDebounce, "Quiet period before a change triggers a run")
}

// runFunc receives the outcome of every run in a watch session.
type runFunc func(res *pipeline.Result, err error)

// watchSession runs the pipeline once and then on every debounced change
// until ctx is done. Runs never overlap.
type watchSession struct {
	cfg      *arkroute.PipelineConfig
	runner   *pipeline.Runner
	debounce time.Duration
	logger   arkroute.Logger
}

func newWatchSession(cfg *arkroute.PipelineConfig, collector *metrics.Collector, debounce time.Duration, logger arkroute.Logger) *watchSession {
	return &watchSession{
		cfg: cfg,
		runner: pipeline.New(filesystem.NewOSFileSystem(),
			pipeline.WithLogger(logger),
			pipeline.WithRecorder(collector)),
		debounce: debounce,
		logger:   logger,
	}
}

func (s *watchSession) run(ctx context.Context, onRun runFunc) error {
	res, err := s.runner.Run(ctx, s.cfg)
	onRun(res, err)

	w := watch.New(s.cfg.ScanRoot,
		watch.WithDebounce(s.debounce),
		watch.WithIgnoreDir(s.cfg.GeneratedOutputDir),
		watch.WithLogger(s.logger))

	return w.Run(ctx, func(ctx context.Context, changed []string) {
		s.logger.Verbose("%d path(s) changed", len(changed))
		res, err := s.runner.Run(ctx, s.cfg)
		onRun(res, err)
	})
}

// reportRun prints each run summary. Run failures are printed and the
// session continues.
func reportRun(out io.Writer, cfg *arkroute.PipelineConfig) runFunc {
	summary := tui.Summary{ModuleDir: cfg.ModuleDir, Styled: tui.IsInteractive()}
	return func(res *pipeline.Result, err error) {
		if err != nil {
			fmt.Fprint(out, summary.RenderError(err))
			return
		}
		_ = summary.Write(out, res)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	moduleDir, err := moduleDirArg(args)
	if err != nil {
		return fmt.Errorf("%v: %w", err, arkroute.ErrInvalidConfig)
	}
	cfg, _, err := resolveModule(moduleDir, watchFlags.module, logger)
	if err != nil {
		return err
	}

	session := newWatchSession(cfg, metrics.New(), watchFlags.debounce, logger)
	return session.run(commandContext(cmd), reportRun(cmd.OutOrStdout(), cfg))
}
