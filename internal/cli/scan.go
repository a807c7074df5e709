package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/annotation"
	"github.com/vvka-141/arkroute/internal/files/scanner"
	"github.com/vvka-141/arkroute/internal/tui"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir...]",
	Short: "List @Route annotations without generating anything",
	Long: `Collect .ets files under each directory (default: current directory) and
print the routes found in them. Files that fail to parse are reported and
skipped.

Examples:
  arkroute scan src/main/ets
  arkroute scan --json src/main/ets | jq '.[].matches[].routeName'`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	},
	RunE: runScan,
}

var scanJSON bool

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print matches as JSON")
}

type scannedFile struct {
	File    string               `json:"file"`
	Matches []arkroute.PageMatch `json:"matches"`
	Error   string               `json:"error,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	files, err := scanner.NewScanner().Collect(roots...)
	if err != nil {
		return err
	}
	logger.Verbose("Collected %d source file(s)", len(files))

	sc := annotation.NewScanner(logger)
	results := make([]scannedFile, 0, len(files))
	failed := 0
	for _, f := range files {
		matches, err := sc.ScanFile(f)
		entry := scannedFile{File: f, Matches: matches}
		if err != nil {
			entry.Error = err.Error()
			failed++
		}
		if entry.Matches == nil {
			entry.Matches = []arkroute.PageMatch{}
		}
		if len(entry.Matches) > 0 || entry.Error != "" || scanJSON {
			results = append(results, entry)
		}
	}

	out := cmd.OutOrStdout()
	if scanJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		writeScanText(out, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be scanned: %w", failed, len(files), arkroute.ErrParse)
	}
	return nil
}

func writeScanText(out io.Writer, results []scannedFile) {
	for _, r := range results {
		fmt.Fprintln(out, r.File)
		for _, m := range r.Matches {
			line := fmt.Sprintf("  %s %s %s", m.RouteName, tui.SymbolArrowRight, m.PageIdentifier)
			if m.Description != "" {
				line += "  (" + m.Description + ")"
			}
			fmt.Fprintln(out, line)
		}
		if r.Error != "" {
			fmt.Fprintf(out, "  %s %s\n", tui.SymbolCross, r.Error)
		}
	}
}
