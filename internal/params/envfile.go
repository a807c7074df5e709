package params

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
)

// ParseEnvFile parses content in .env format (KEY=VALUE lines, # comments,
// optional quoting). A line without a separator is an error.
func ParseEnvFile(content []byte) (map[string]string, error) {
	vars, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("invalid env file: %w", err)
	}
	// godotenv stores a trailing line without a separator under an empty key.
	if line, ok := vars[""]; ok {
		return nil, fmt.Errorf("invalid env file: line %q is not KEY=VALUE", strings.TrimSpace(line))
	}
	return vars, nil
}

// LoadEnvFiles reads and merges env files in order; later files win.
func LoadEnvFiles(fsProvider filesystem.FileSystemProvider, paths []string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, path := range paths {
		content, err := fsProvider.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read vars file '%s': %w\n\nTip: Verify the path or pass values directly with --var key=value", path, err)
		}
		vars, err := ParseEnvFile(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse vars file '%s': %w\n\nTip: Verify the file format (KEY=VALUE)", path, err)
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	return merged, nil
}
