package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		stdinTTY  bool
		stdoutTTY bool
		want      Mode
	}{
		{"terminal", nil, true, true, ModeInteractive},
		{"forced off", map[string]string{NonInteractiveEnv: "1"}, true, true, ModeNonInteractive},
		{"only 1 forces", map[string]string{NonInteractiveEnv: "true"}, true, true, ModeInteractive},
		{"ci", map[string]string{"CI": "true"}, true, true, ModeNonInteractive},
		{"no color", map[string]string{"NO_COLOR": "1"}, true, true, ModeNonInteractive},
		{"piped stdin", nil, false, true, ModeNonInteractive},
		{"piped stdout", nil, true, false, ModeNonInteractive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect(envOf(tt.env), tt.stdinTTY, tt.stdoutTTY))
		})
	}
}

func TestDetectMode_NonInteractiveInTests(t *testing.T) {
	t.Setenv(NonInteractiveEnv, "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")

	assert.False(t, IsInteractive(), "stdin is not a terminal under go test")
}
