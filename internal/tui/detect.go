package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for arkroute.
type Mode int

const (
	// ModeNonInteractive is used for CI pipelines, IDE build hooks and piped output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// NonInteractiveEnv forces non-interactive mode when set to "1".
const NonInteractiveEnv = "ARKROUTE_NON_INTERACTIVE"

// DetectMode determines whether arkroute should render wizards and styled
// summaries or fall back to plain line output.
//
// Returns ModeNonInteractive if:
//   - ARKROUTE_NON_INTERACTIVE=1 is set
//   - CI is set (common CI convention)
//   - NO_COLOR is set
//   - stdin or stdout is not a terminal
func DetectMode() Mode {
	return detect(os.Getenv,
		term.IsTerminal(int(os.Stdin.Fd())),
		term.IsTerminal(int(os.Stdout.Fd())))
}

func detect(getenv func(string) string, stdinTTY, stdoutTTY bool) Mode {
	if getenv(NonInteractiveEnv) == "1" {
		return ModeNonInteractive
	}
	if getenv("CI") != "" || getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !stdinTTY || !stdoutTTY {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
