package arkroute

import (
	"errors"
	"fmt"
	"path/filepath"
)

// PageMatch is one completed Route annotation found in a source file.
type PageMatch struct {
	RouteName      string `json:"routeName"`
	Description    string `json:"description,omitempty"`
	PageIdentifier string `json:"pageIdentifier"`
}

// Complete reports whether both the route name and page identifier were found.
func (m PageMatch) Complete() bool {
	return m.RouteName != "" && m.PageIdentifier != ""
}

// FileMatches pairs a scanned source file with the matches it produced.
type FileMatches struct {
	SourceFile string
	Matches    []PageMatch
}

// PageRegistrationEntry is the template input for one page of a generated registration file.
type PageRegistrationEntry struct {
	PageIdentifier      string
	SourceFile          string
	GeneratedFileName   string
	ImportPath          string
	BuilderFunctionName string
}

// RouteTableEntry is one record of route_map.json.
type RouteTableEntry struct {
	RouteName           string
	Description         string
	PageSourceFile      string
	BuilderFunctionName string
}

// RouteTable is the ordered set of routes discovered in one run.
type RouteTable struct {
	Entries []RouteTableEntry
}

// Len returns the number of routes.
func (t RouteTable) Len() int {
	return len(t.Entries)
}

// PipelineConfig holds the resolved absolute paths of one module.
type PipelineConfig struct {
	// ModuleName prefixes every builder function name.
	ModuleName string

	// ModuleDir is the module root; route table source paths are relative to it.
	ModuleDir string

	ScanRoot           string
	GeneratedOutputDir string
	IndexDir           string
	ManifestPath       string
	RouteTablePath     string

	// TemplatePath overrides the built-in registration template when set.
	TemplatePath string

	// Vars are exposed to the registration template as .Vars.
	Vars map[string]string

	// DryRun scans and aggregates without touching the filesystem.
	DryRun bool
}

// Validate checks that every path is set and absolute.
func (c *PipelineConfig) Validate() error {
	var errs []error

	if c.ModuleName == "" {
		errs = append(errs, fmt.Errorf("ModuleName is required: %w", ErrInvalidConfig))
	}

	paths := []struct {
		name, value string
	}{
		{"ModuleDir", c.ModuleDir},
		{"ScanRoot", c.ScanRoot},
		{"GeneratedOutputDir", c.GeneratedOutputDir},
		{"IndexDir", c.IndexDir},
		{"ManifestPath", c.ManifestPath},
		{"RouteTablePath", c.RouteTablePath},
	}
	for _, p := range paths {
		switch {
		case p.value == "":
			errs = append(errs, fmt.Errorf("%s is required: %w", p.name, ErrInvalidConfig))
		case !filepath.IsAbs(p.value):
			errs = append(errs, fmt.Errorf("%s must be absolute, got %q: %w", p.name, p.value, ErrInvalidConfig))
		}
	}

	return errors.Join(errs...)
}
