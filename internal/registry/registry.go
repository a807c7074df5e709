package registry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// NamingContext carries what entry names and paths are derived from.
type NamingContext struct {
	ModuleName   string
	ModuleDir    string
	GeneratedDir string
}

// NamingContextFor extracts the naming context of a pipeline configuration.
func NamingContextFor(cfg *arkroute.PipelineConfig) NamingContext {
	return NamingContext{
		ModuleName:   cfg.ModuleName,
		ModuleDir:    cfg.ModuleDir,
		GeneratedDir: cfg.GeneratedOutputDir,
	}
}

// FileGroup is the registration input of one scanned source file.
type FileGroup struct {
	SourceFile        string
	GeneratedFileName string
	Entries           []arkroute.PageRegistrationEntry
}

// Empty reports whether the source produced no pages.
func (g FileGroup) Empty() bool {
	return len(g.Entries) == 0
}

// Registry is the aggregated result of one run.
type Registry struct {
	Table  arkroute.RouteTable
	Groups []FileGroup
}

// PageCount returns the number of registered pages across all groups.
func (r Registry) PageCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Entries)
	}
	return n
}

// Aggregate builds the route table and one group per file, preserving file
// and match order. Every file gets a group, including files without matches.
func Aggregate(ctx NamingContext, files []arkroute.FileMatches) (Registry, error) {
	reg := Registry{Groups: make([]FileGroup, 0, len(files))}

	for _, f := range files {
		group := FileGroup{
			SourceFile:        f.SourceFile,
			GeneratedFileName: GeneratedFileName(f.SourceFile),
		}

		for _, m := range f.Matches {
			if !m.Complete() {
				continue
			}

			importPath, err := ImportPath(ctx.GeneratedDir, f.SourceFile)
			if err != nil {
				return Registry{}, err
			}
			pageSource, err := ModuleRelative(ctx.ModuleDir, filepath.Join(ctx.GeneratedDir, group.GeneratedFileName))
			if err != nil {
				return Registry{}, err
			}
			builder := BuilderFunctionName(ctx.ModuleName, m.PageIdentifier)

			reg.Table.Entries = append(reg.Table.Entries, arkroute.RouteTableEntry{
				RouteName:           m.RouteName,
				Description:         m.Description,
				PageSourceFile:      pageSource,
				BuilderFunctionName: builder,
			})
			group.Entries = append(group.Entries, arkroute.PageRegistrationEntry{
				PageIdentifier:      m.PageIdentifier,
				SourceFile:          f.SourceFile,
				GeneratedFileName:   group.GeneratedFileName,
				ImportPath:          importPath,
				BuilderFunctionName: builder,
			})
		}

		reg.Groups = append(reg.Groups, group)
	}

	return reg, nil
}

// BuilderFunctionName is moduleName + page + "Builder".
func BuilderFunctionName(moduleName, page string) string {
	return moduleName + page + arkroute.BuilderSuffix
}

// GeneratedFileName is the REX-prefixed base name of a source file.
func GeneratedFileName(source string) string {
	return arkroute.GeneratedFilePrefix + filepath.Base(source)
}

// ImportPath returns source relative to dir, slash separated and without the
// source extension.
func ImportPath(dir, source string) (string, error) {
	rel, err := filepath.Rel(dir, source)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s: %w", source, dir, err)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), arkroute.SourceExtension), nil
}

// ModuleRelative returns path relative to the module directory with forward slashes.
func ModuleRelative(moduleDir, path string) (string, error) {
	rel, err := filepath.Rel(moduleDir, path)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to module %s: %w", path, moduleDir, err)
	}
	return filepath.ToSlash(rel), nil
}
