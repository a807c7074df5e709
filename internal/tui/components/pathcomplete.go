package components

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathCompleter provides tab-completion and cycling for directory paths
// typed relative to a base directory. Hidden entries such as .hvigor or
// .idea are never offered.
//
// Usage:
//
//	completer := NewPathCompleter(moduleDir)
//
//	// On Tab press:
//	field.SetValue(completer.Next(field.Raw()))
//
//	// On any other keypress:
//	completer.Reset()
type PathCompleter struct {
	base       string
	matches    []string
	cycleIndex int
	lastInput  string
}

// NewPathCompleter creates a completer resolving input against base.
func NewPathCompleter(base string) *PathCompleter {
	if base == "" {
		base = "."
	}
	return &PathCompleter{base: base}
}

// Next returns the next completion for the given input.
// On first call (or after input changes), it computes matches.
// On subsequent calls with the same parent, it cycles through matches.
func (c *PathCompleter) Next(input string) string {
	parent, prefix := splitPath(input)

	if parent != c.lastInput || c.matches == nil {
		c.matches = c.findMatches(parent, prefix)
		c.cycleIndex = 0
		c.lastInput = parent

		if len(c.matches) == 0 {
			return input
		}

		if len(c.matches) > 1 {
			common := longestCommonPrefix(c.matches)
			candidate := join(parent, common)
			if len(candidate) > len(input) {
				return candidate
			}
		}
		return join(parent, c.matches[c.cycleIndex]) + "/"
	}

	if len(c.matches) == 0 {
		return input
	}

	c.cycleIndex = (c.cycleIndex + 1) % len(c.matches)
	return join(parent, c.matches[c.cycleIndex]) + "/"
}

// Reset clears the cycle state. Call this when the user types a non-Tab key.
func (c *PathCompleter) Reset() {
	c.matches = nil
	c.cycleIndex = 0
	c.lastInput = ""
}

func (c *PathCompleter) findMatches(parent, prefix string) []string {
	dir := c.base
	if parent != "." {
		dir = filepath.Join(c.base, filepath.FromSlash(parent))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var matches []string
	lowPrefix := strings.ToLower(prefix)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), lowPrefix) {
			matches = append(matches, name)
		}
	}

	sort.Strings(matches)
	return matches
}

// join keeps completions in the slash form used by arkroute.yaml.
func join(parent, name string) string {
	if parent == "." {
		return name
	}
	return parent + "/" + name
}

// splitPath splits an input into parent directory and name prefix.
//
//	"src/main/e" → ("src/main", "e")
//	"src/"       → ("src", "")
//	"src"        → (".", "src")
//	""           → (".", "")
func splitPath(input string) (parent, prefix string) {
	input = filepath.ToSlash(input)
	if input == "" || input == "." || input == "./" {
		return ".", ""
	}

	if strings.HasSuffix(input, "/") {
		return strings.TrimRight(input, "/"), ""
	}

	i := strings.LastIndex(input, "/")
	if i < 0 {
		return ".", input
	}
	return input[:i], input[i+1:]
}

// longestCommonPrefix finds the longest common prefix among strs (case-insensitive).
func longestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	if len(strs) == 1 {
		return strs[0]
	}

	lowered := make([]string, len(strs))
	for i, s := range strs {
		lowered[i] = strings.ToLower(s)
	}

	first := lowered[0]
	rest := lowered[1:]
	for i := 0; i < len(first); i++ {
		ch := first[i]
		for _, s := range rest {
			if i >= len(s) || s[i] != ch {
				return strs[0][:i]
			}
		}
	}
	return strs[0]
}
