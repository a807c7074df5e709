package cli

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/syntax"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ets>",
	Short: "Print the syntax tree of an .ets file",
	Long: `Parse one .ets source and print the tree the annotation scanner walks.
Useful when a @Route annotation is not picked up.

Examples:
  arkroute inspect src/main/ets/pages/Home.ets
  arkroute inspect --spew src/main/ets/pages/Home.ets`,
	Args:              RequireSourceFile,
	ValidArgsFunction: completeSourceFiles,
	RunE:              runInspect,
}

var inspectSpew bool

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectSpew, "spew", false, "Dump every node field with go-spew")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	root, err := syntax.Parse(path, string(src))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if inspectSpew {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(out, root)
		return nil
	}
	return syntax.Dump(out, root)
}
