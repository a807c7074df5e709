package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256Calculator_CalculateRaw(t *testing.T) {
	calc := New()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "Empty content",
			content:  "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "Known vector",
			content:  "abc",
			expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.CalculateRaw([]byte(tt.content)))
		})
	}

	assert.NotEqual(t, calc.CalculateRaw([]byte("a  b")), calc.CalculateRaw([]byte("a b")),
		"raw checksums see whitespace")
}

func TestSHA256Calculator_Normalize(t *testing.T) {
	calc := New()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"collapses whitespace", "  import { A }\n\n\tfrom './A'  ", "import { A } from './A'"},
		{"drops line comments", "a // note\nb", "a b"},
		{"drops block comments", "a /* x\ny */ b", "a b"},
		{"comment without spaces still separates", "a/* x */b", "a b"},
		{"keeps strings", "x = 'a  // b'", "x = 'a  // b'"},
		{"keeps escaped quotes", `'it\'s  /* here */'`, `'it\'s  /* here */'`},
		{"keeps templates", "`a\n  b`", "`a\n  b`"},
		{"case sensitive", "HomePage", "HomePage"},
		{"unterminated block comment", "a /* open", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.normalize(tt.content))
		})
	}
}

func TestSHA256Calculator_CalculateNormalized(t *testing.T) {
	calc := New()

	a := []byte("// generated\nimport { Home } from '../pages/Home'\n\n@Builder\nexport function entryHomeBuilder() {\n  Home()\n}\n")
	b := []byte("import { Home } from '../pages/Home'\n@Builder export function entryHomeBuilder() { Home() }")
	c := []byte("import { Home } from '../pages/Home2'\n@Builder export function entryHomeBuilder() { Home() }")

	assert.Equal(t, calc.CalculateNormalized(a), calc.CalculateNormalized(b))
	assert.NotEqual(t, calc.CalculateNormalized(b), calc.CalculateNormalized(c))
	assert.Len(t, calc.CalculateNormalized(a), 64)
}
