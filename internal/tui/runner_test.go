package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"empty takes default yes", "\n", true, true},
		{"empty takes default no", "\n", false, false},
		{"yes", "y\n", false, true},
		{"yes word", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"eof takes default", "", true, true},
		{"answer without newline", "y", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "Overwrite arkroute.yaml?", true, tt.def)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Overwrite arkroute.yaml?")
		})
	}
}

func TestConfirm_NonInteractive(t *testing.T) {
	var out bytes.Buffer
	assert.False(t, Confirm(strings.NewReader("y\n"), &out, "Overwrite?", false, false))
	assert.Empty(t, out.String())
}
