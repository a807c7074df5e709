package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/config"
	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/internal/params"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// moduleFlags holds the path and template flags shared by every command
// that resolves a module.
type moduleFlags struct {
	moduleName     string
	scanDir        string
	generatedDir   string
	indexDir       string
	routeMapPath   string
	moduleJSONPath string
	template       string
	vars           []string
	varsFiles      []string
}

func (f *moduleFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.moduleName, "module-name", "", "Builder function prefix (default: module directory name)")
	fl.StringVar(&f.scanDir, "scan-dir", "", "Directory searched for .ets pages (default: "+arkroute.DefaultScanDir+")")
	fl.StringVar(&f.generatedDir, "generated-dir", "", "Output directory for REX*.ets files (default: "+arkroute.DefaultGeneratedDir+")")
	fl.StringVar(&f.indexDir, "index-dir", "", "Directory holding "+arkroute.IndexFileName+" (default: module directory)")
	fl.StringVar(&f.routeMapPath, "route-map", "", "Path of the route table (default: "+arkroute.DefaultRouteMapDir+"/"+arkroute.DefaultRouteMapFile+")")
	fl.StringVar(&f.moduleJSONPath, "module-json", "", "Path of module.json5 (default: "+arkroute.DefaultManifestPath+")")
	fl.StringVar(&f.template, "template", "", "Registration template file (default: built-in)")
	fl.StringArrayVar(&f.vars, "var", nil, "Template variable key=value (repeatable)")
	fl.StringArrayVar(&f.varsFiles, "vars-file", nil, "Load template variables from a .env file (repeatable)")

	for _, name := range []string{"scan-dir", "generated-dir", "index-dir"} {
		_ = cmd.RegisterFlagCompletionFunc(name, completeDirectories)
	}
	for _, name := range []string{"route-map", "module-json"} {
		_ = cmd.RegisterFlagCompletionFunc(name, completeFiles("json", "json5"))
	}
	_ = cmd.RegisterFlagCompletionFunc("template", completeFiles("tmpl", "ets"))
	_ = cmd.RegisterFlagCompletionFunc("vars-file", completeFiles("env"))
}

// overrides returns the path settings given on the command line.
func (f moduleFlags) overrides() config.ProjectConfig {
	return config.ProjectConfig{
		ModuleName:     f.moduleName,
		ScanDir:        f.scanDir,
		GeneratedDir:   f.generatedDir,
		IndexDir:       f.indexDir,
		RouteMapPath:   f.routeMapPath,
		ModuleJSONPath: f.moduleJSONPath,
		Template:       f.template,
	}
}

// loadProjectConfig loads godotenv and project configuration.
// Returns nil config if arkroute.yaml does not exist (not an error).
func loadProjectConfig(moduleDir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load(filepath.Join(moduleDir, ".env"))
	_ = godotenv.Load()

	projectCfg, err := config.Load(moduleDir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// resolveModule layers arkroute.yaml, ARKROUTE_* variables and flags, in
// increasing priority, into a pipeline configuration. Template variables
// layer the same way with --vars-file between the environment and --var.
func resolveModule(moduleDir string, flags moduleFlags, logger arkroute.Logger) (*arkroute.PipelineConfig, *config.ProjectConfig, error) {
	projectCfg, err := loadProjectConfig(moduleDir)
	if err != nil {
		return nil, nil, err
	}
	if projectCfg == nil {
		logger.Verbose("No %s in %s, using the default layout", config.ConfigFileName, moduleDir)
		projectCfg = &config.ProjectConfig{}
	}

	projectCfg.ApplyEnv(os.LookupEnv, os.Environ())
	projectCfg.Merge(flags.overrides())

	fileVars, err := params.LoadEnvFiles(filesystem.NewOSFileSystem(), flags.varsFiles)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, arkroute.ErrInvalidConfig)
	}
	cliVars, err := params.ParseKeyValuePairs(flags.vars)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --var: %v: %w", err, arkroute.ErrInvalidConfig)
	}
	if len(cliVars) > 0 {
		logger.Verbose("CLI variables override %d value(s)", len(cliVars))
	}
	projectCfg.Vars = params.Merge(projectCfg.Vars, fileVars, cliVars)

	cfg, err := config.Resolve(moduleDir, projectCfg)
	if err != nil {
		return nil, nil, err
	}

	logger.Verbose("Module %s (%s)", cfg.ModuleName, cfg.ModuleDir)
	logger.Verbose("  scan:      %s", cfg.ScanRoot)
	logger.Verbose("  generated: %s", cfg.GeneratedOutputDir)
	logger.Verbose("  route map: %s", cfg.RouteTablePath)
	logger.Verbose("  manifest:  %s", cfg.ManifestPath)
	if cfg.TemplatePath != "" {
		logger.Verbose("  template:  %s", cfg.TemplatePath)
	}
	return cfg, projectCfg, nil
}

func newLogger(cmd *cobra.Command) arkroute.Logger {
	return logging.NewWriterLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}
