package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/config"
	"github.com/vvka-141/arkroute/internal/render"
	"github.com/vvka-141/arkroute/internal/tui"
	"github.com/vvka-141/arkroute/internal/tui/wizards"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

var initCmd = &cobra.Command{
	Use:   "init [module_dir]",
	Short: "Write arkroute.yaml for a module",
	Long: `Create arkroute.yaml in the module directory.

On a terminal without flags an interactive wizard asks for the settings.
Otherwise the flags are used as given and everything else keeps the default
layout. Existing settings are kept unless a flag overrides them.

With --eject-template the built-in registration template is written to
` + wizards.DefaultTemplateFile + ` and referenced from arkroute.yaml.

Examples:
  arkroute init
  arkroute init ./entry --module-name entry --scan-dir src/main/ets
  arkroute init --eject-template --force`,
	Args:              OptionalModuleDir,
	ValidArgsFunction: completeModuleDir,
	RunE:              runInit,
}

type initOptions struct {
	moduleName    string
	scanDir       string
	generatedDir  string
	ejectTemplate bool
	force         bool
}

var initFlags initOptions

// runInitWizard is replaced in tests.
var runInitWizard = wizards.RunInitWizard

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFlags.moduleName, "module-name", "", "Builder function prefix (default: module directory name)")
	initCmd.Flags().StringVar(&initFlags.scanDir, "scan-dir", "", "Directory searched for .ets pages")
	initCmd.Flags().StringVar(&initFlags.generatedDir, "generated-dir", "", "Output directory for REX*.ets files")
	initCmd.Flags().BoolVar(&initFlags.ejectTemplate, "eject-template", false, "Copy the built-in template into the module")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files without asking")
	_ = initCmd.RegisterFlagCompletionFunc("scan-dir", completeDirectories)
	_ = initCmd.RegisterFlagCompletionFunc("generated-dir", completeDirectories)
}

func resetInitFlags() {
	initFlags = initOptions{}
}

func runInit(cmd *cobra.Command, args []string) error {
	moduleDir, err := moduleDirArg(args)
	if err != nil {
		return fmt.Errorf("%v: %w", err, arkroute.ErrInvalidConfig)
	}
	interactive := tui.IsInteractive()
	out := cmd.ErrOrStderr()

	existing, err := config.Load(moduleDir)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		existing = &config.ProjectConfig{}
	case err != nil:
		return err
	case !initFlags.force:
		if !tui.Confirm(cmd.InOrStdin(), out, config.ConfigFileName+" exists. Update it?", interactive, false) {
			return fmt.Errorf("%s already exists in %s (use --force to overwrite): %w",
				config.ConfigFileName, moduleDir, arkroute.ErrInvalidConfig)
		}
	}

	var cfg config.ProjectConfig
	eject := initFlags.ejectTemplate
	if interactive && cmd.Flags().NFlag() == 0 {
		res, err := runInitWizard(moduleDir, *existing)
		if err != nil {
			return err
		}
		if res.Cancelled {
			fmt.Fprintln(out, "Cancelled, nothing written")
			return nil
		}
		cfg = res.Config
		eject = res.EjectTemplate
	} else {
		cfg = *existing
		cfg.Merge(config.ProjectConfig{
			ModuleName:   initFlags.moduleName,
			ScanDir:      initFlags.scanDir,
			GeneratedDir: initFlags.generatedDir,
		})
		if err := validateInitConfig(cfg); err != nil {
			return err
		}
	}

	written := []string{}
	if eject {
		if cfg.Template == "" {
			cfg.Template = wizards.DefaultTemplateFile
		}
		path := cfg.Template
		if !filepath.IsAbs(path) {
			path = filepath.Join(moduleDir, filepath.FromSlash(path))
		}
		ok, err := writeTemplate(path, initFlags.force)
		if err != nil {
			return err
		}
		if ok {
			written = append(written, path)
		} else {
			fmt.Fprintf(out, "Keeping existing %s\n", path)
		}
	}

	if err := config.Save(moduleDir, &cfg); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
	}
	written = append(written, filepath.Join(moduleDir, config.ConfigFileName))

	fmt.Fprintf(out, "\n%s Module initialized\n\n", tui.SymbolCheck)
	for _, f := range written {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  arkroute generate --dry-run   # check what would be generated")
	fmt.Fprintln(out, "  arkroute watch                # regenerate while editing")
	return nil
}

func validateInitConfig(cfg config.ProjectConfig) error {
	if cfg.ModuleName != "" {
		if err := wizards.ValidateModuleName(cfg.ModuleName); err != nil {
			return fmt.Errorf("--module-name: %v: %w", err, arkroute.ErrInvalidConfig)
		}
	}
	for flag, p := range map[string]string{"--scan-dir": cfg.ScanDir, "--generated-dir": cfg.GeneratedDir} {
		if p == "" {
			continue
		}
		if err := wizards.ValidateModulePath(p); err != nil {
			return fmt.Errorf("%s: %v: %w", flag, err, arkroute.ErrInvalidConfig)
		}
	}
	return nil
}

// writeTemplate writes the built-in template to path. An existing file is
// kept unless force is set; the boolean reports whether the file was written.
func writeTemplate(path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(render.DefaultSource()), 0644); err != nil {
		return false, fmt.Errorf("failed to write template %s: %w", path, err)
	}
	return true, nil
}
