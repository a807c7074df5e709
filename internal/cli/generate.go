package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/metrics"
	"github.com/vvka-141/arkroute/internal/pipeline"
	"github.com/vvka-141/arkroute/internal/tui"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

var generateCmd = &cobra.Command{
	Use:   "generate [module_dir]",
	Short: "Generate the route table and registration files",
	Long: `Scan the module's .ets sources for @Route annotations and write:

  - the route table (route_map.json); each entry has name, pageSourceFile
    and buildFunction, plus "data": {"description": ...} when the @Route
    annotation sets a description
  - one REX<Source>.ets registration file per annotated source
  - the routerMap entry of module.json5

Stale REX*.ets files and the legacy builderRegister.ets are removed, and the
legacy re-export line is dropped from Index.ets.

Settings come from arkroute.yaml in the module directory, overridden by
ARKROUTE_* environment variables (a .env file is loaded first), overridden
by flags.

Examples:
  arkroute generate                         # current directory is the module
  arkroute generate ./entry --dry-run       # report routes, write nothing
  arkroute generate --var author=ops        # expose .Vars.author to the template
  arkroute generate --metrics-file run.prom # node_exporter textfile`,
	Args:              OptionalModuleDir,
	ValidArgsFunction: completeModuleDir,
	RunE:              runGenerate,
}

type generateOptions struct {
	module      moduleFlags
	dryRun      bool
	metricsFile string
	listRoutes  bool
}

var generateFlags generateOptions

func init() {
	rootCmd.AddCommand(generateCmd)

	generateFlags.module.register(generateCmd)
	generateCmd.Flags().BoolVar(&generateFlags.dryRun, "dry-run", false, "Scan and aggregate only, write nothing")
	generateCmd.Flags().StringVar(&generateFlags.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	generateCmd.Flags().BoolVar(&generateFlags.listRoutes, "routes", false, "List every route in the summary")
	_ = generateCmd.RegisterFlagCompletionFunc("metrics-file", completeFiles("prom"))
}

func resetGenerateFlags() {
	generateFlags = generateOptions{}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	moduleDir, err := moduleDirArg(args)
	if err != nil {
		return fmt.Errorf("%v: %w", err, arkroute.ErrInvalidConfig)
	}

	cfg, _, err := resolveModule(moduleDir, generateFlags.module, logger)
	if err != nil {
		return err
	}
	cfg.DryRun = generateFlags.dryRun

	collector := metrics.New()
	runner := pipeline.New(filesystem.NewOSFileSystem(),
		pipeline.WithLogger(logger),
		pipeline.WithRecorder(collector))

	res, runErr := runner.Run(commandContext(cmd), cfg)

	if generateFlags.metricsFile != "" {
		if err := collector.WriteTextfile(generateFlags.metricsFile); err != nil {
			logger.Error("Failed to write metrics to %s: %v", generateFlags.metricsFile, err)
		}
	}

	if runErr != nil {
		return runErr
	}

	summary := tui.Summary{
		ModuleDir: cfg.ModuleDir,
		Styled:    tui.IsInteractive(),
		Routes:    generateFlags.listRoutes || generateFlags.dryRun,
	}
	return summary.Write(cmd.OutOrStdout(), res)
}
