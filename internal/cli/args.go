package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// OptionalModuleDir accepts zero or one module directory argument.
func OptionalModuleDir(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireSourceFile validates that exactly one source file argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireSourceFile(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`accepts 1 arg(s), received 0: missing <file.ets>

Usage: %s

Example:
  %s src/main/ets/pages/Home.ets`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// moduleDirArg returns the module directory named by args, defaulting to
// the working directory.
func moduleDirArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("module directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("module directory %s is not a directory", dir)
	}
	return abs, nil
}
