package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/render"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the built-in registration template",
	Long: `Print the text/template source used to render REX*.ets files. Save it,
edit it and point --template (or template: in arkroute.yaml) at the copy.

The template receives:
  .ModuleName         module name
  .SourceFile         source path relative to the module
  .GeneratedFileName  name of the file being written
  .PageList           pages: .PageIdentifier .ImportPath .BuilderFunctionName
  .Vars               --var / vars: values`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), render.DefaultSource())
		return err
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
