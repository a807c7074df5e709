package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/arkroute/internal/checksum"
	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/internal/registry"
	"github.com/vvka-141/arkroute/internal/render"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// Artifact kinds reported to an Observer.
const (
	KindRouteTable   = "route_table"
	KindRegistration = "registration"
	KindLegacy       = "legacy"
	KindIndex        = "index"
)

// Change describes what a write operation did on disk.
type Change int

const (
	// Unchanged means the target already had the desired content, or there was nothing to do.
	Unchanged Change = iota
	Written
	Deleted
)

func (c Change) String() string {
	switch c {
	case Written:
		return "written"
	case Deleted:
		return "deleted"
	}
	return "unchanged"
}

// Observer is notified of every file written or deleted.
type Observer interface {
	ArtifactWritten(kind string)
	ArtifactDeleted(kind string)
}

type nopObserver struct{}

func (nopObserver) ArtifactWritten(string) {}
func (nopObserver) ArtifactDeleted(string) {}

// Writer persists the outputs of one run.
type Writer struct {
	fs       filesystem.FileSystem
	cfg      *arkroute.PipelineConfig
	renderer *render.Renderer
	sums     checksum.Calculator
	logger   arkroute.Logger
	observer Observer

	// claimed maps generated file names written by this writer to their source.
	claimed map[string]string
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithObserver reports writes and deletions to o.
func WithObserver(o Observer) WriterOption {
	return func(w *Writer) {
		if o != nil {
			w.observer = o
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l arkroute.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWriter creates a writer for the paths of cfg.
func NewWriter(fs filesystem.FileSystem, cfg *arkroute.PipelineConfig, renderer *render.Renderer, opts ...WriterOption) *Writer {
	if fs == nil {
		panic("filesystem cannot be nil")
	}
	if cfg == nil {
		panic("pipeline config cannot be nil")
	}
	if renderer == nil {
		renderer = render.Default()
	}

	w := &Writer{
		fs:       fs,
		cfg:      cfg,
		renderer: renderer,
		sums:     checksum.New(),
		logger:   logging.NewNullLogger(),
		observer: nopObserver{},
		claimed:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type routeMapFile struct {
	RouterMap []routeRecord `json:"routerMap"`
}

type routeRecord struct {
	Name           string     `json:"name"`
	PageSourceFile string     `json:"pageSourceFile"`
	BuildFunction  string     `json:"buildFunction"`
	Data           *routeData `json:"data,omitempty"`
}

type routeData struct {
	Description string `json:"description"`
}

// EncodeRouteTable renders the route_map.json document: two-space indent,
// no HTML escaping, no trailing newline.
func EncodeRouteTable(table arkroute.RouteTable) ([]byte, error) {
	doc := routeMapFile{RouterMap: make([]routeRecord, 0, table.Len())}
	for _, e := range table.Entries {
		rec := routeRecord{
			Name:           e.RouteName,
			PageSourceFile: e.PageSourceFile,
			BuildFunction:  e.BuilderFunctionName,
		}
		if e.Description != "" {
			rec.Data = &routeData{Description: e.Description}
		}
		doc.RouterMap = append(doc.RouterMap, rec)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode route table: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteRouteTable replaces the route table file with table.
func (w *Writer) WriteRouteTable(table arkroute.RouteTable) (Change, error) {
	content, err := EncodeRouteTable(table)
	if err != nil {
		return Unchanged, err
	}
	if err := w.fs.MkdirAll(filepath.Dir(w.cfg.RouteTablePath)); err != nil {
		return Unchanged, fmt.Errorf("failed to create route table directory: %w", err)
	}
	return w.writeIfChanged(w.cfg.RouteTablePath, content, KindRouteTable)
}

// WriteRegistration writes, rewrites or deletes the registration file of
// one source. The legacy shared registration file is removed first.
//
// Sources sharing a base name share a generated file. A file written for
// one source is never deleted for another source in the same run; when two
// routed sources collide the later one wins and the collision is logged.
func (w *Writer) WriteRegistration(group registry.FileGroup) (Change, error) {
	if err := w.removeLegacyRegistration(); err != nil {
		return Unchanged, err
	}

	target := filepath.Join(w.cfg.GeneratedOutputDir, group.GeneratedFileName)
	owner, taken := w.claimed[group.GeneratedFileName]
	if group.Empty() {
		if taken {
			w.logger.Verbose("Keeping %s: written for %s, %s has no routes", group.GeneratedFileName, owner, group.SourceFile)
			return Unchanged, nil
		}
		if !filesystem.IsRegularFile(w.fs, target) {
			return Unchanged, nil
		}
		if err := w.fs.Remove(target); err != nil {
			return Unchanged, fmt.Errorf("failed to delete stale %s: %w", target, err)
		}
		w.logger.Verbose("Deleted %s: %s no longer declares routes", group.GeneratedFileName, group.SourceFile)
		w.observer.ArtifactDeleted(KindRegistration)
		return Deleted, nil
	}

	content, err := w.renderer.Render(render.Data{
		PageList:          group.Entries,
		ModuleName:        w.cfg.ModuleName,
		SourceFile:        group.SourceFile,
		GeneratedFileName: group.GeneratedFileName,
		Vars:              w.cfg.Vars,
	})
	if err != nil {
		return Unchanged, err
	}
	if taken && owner != group.SourceFile {
		w.logger.Error("%s is generated for both %s and %s; keeping the routes of %s",
			group.GeneratedFileName, owner, group.SourceFile, group.SourceFile)
	}
	w.claimed[group.GeneratedFileName] = group.SourceFile

	if err := w.fs.MkdirAll(w.cfg.GeneratedOutputDir); err != nil {
		return Unchanged, fmt.Errorf("failed to create generated directory: %w", err)
	}
	return w.writeIfChanged(target, content, KindRegistration)
}

func (w *Writer) removeLegacyRegistration() error {
	legacy := filepath.Join(w.cfg.GeneratedOutputDir, arkroute.LegacyRegistrationFileName)
	if !filesystem.IsRegularFile(w.fs, legacy) {
		return nil
	}
	if err := w.fs.Remove(legacy); err != nil {
		return fmt.Errorf("failed to delete legacy %s: %w", legacy, err)
	}
	w.logger.Info("Removed legacy %s", legacy)
	w.observer.ArtifactDeleted(KindLegacy)
	return nil
}

// Prune deletes every .ets file directly in the generated directory whose
// name lacks the REX prefix, and returns the deleted paths.
func (w *Writer) Prune() ([]string, error) {
	dir := w.cfg.GeneratedOutputDir
	if !filesystem.Exists(w.fs, dir) {
		return nil, nil
	}
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var deleted []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !e.Mode().IsRegular() {
			continue
		}
		if !strings.HasSuffix(name, arkroute.SourceExtension) || strings.HasPrefix(name, arkroute.GeneratedFilePrefix) {
			continue
		}

		path := filepath.Join(dir, name)
		if err := w.fs.Remove(path); err != nil {
			return deleted, fmt.Errorf("failed to prune %s: %w", path, err)
		}
		w.logger.Verbose("Pruned %s", path)
		w.observer.ArtifactDeleted(KindLegacy)
		deleted = append(deleted, path)
	}
	return deleted, nil
}

// LegacyIndexLine is the re-export the shared registration file used to need.
func (w *Writer) LegacyIndexLine() (string, error) {
	legacy := filepath.Join(w.cfg.GeneratedOutputDir, arkroute.LegacyRegistrationFileName)
	importPath, err := registry.ImportPath(w.cfg.IndexDir, legacy)
	if err != nil {
		return "", err
	}
	return "export * from './" + importPath + "'", nil
}

// CleanIndex removes the legacy re-export from Index.ets. Every other line
// is kept as is; the file is only rewritten when the line was present.
func (w *Writer) CleanIndex() (Change, error) {
	indexPath := filepath.Join(w.cfg.IndexDir, arkroute.IndexFileName)
	if !filesystem.IsRegularFile(w.fs, indexPath) {
		return Unchanged, nil
	}

	target, err := w.LegacyIndexLine()
	if err != nil {
		return Unchanged, err
	}
	content, err := w.fs.ReadFile(indexPath)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to read %s: %w", indexPath, err)
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.TrimSuffix(line, "\r") != target {
			continue
		}
		lines = append(lines[:i], lines[i+1:]...)
		if err := w.fs.WriteFile(indexPath, []byte(strings.Join(lines, "\n"))); err != nil {
			return Unchanged, fmt.Errorf("failed to write %s: %w", indexPath, err)
		}
		w.logger.Info("Removed legacy re-export from %s", indexPath)
		w.observer.ArtifactWritten(KindIndex)
		return Written, nil
	}
	return Unchanged, nil
}

// writeIfChanged skips the write when the file already holds content.
func (w *Writer) writeIfChanged(path string, content []byte, kind string) (Change, error) {
	if existing, err := w.fs.ReadFile(path); err == nil {
		if w.sums.CalculateRaw(existing) == w.sums.CalculateRaw(content) {
			w.logger.Verbose("Unchanged %s", path)
			return Unchanged, nil
		}
		if w.sums.CalculateNormalized(existing) == w.sums.CalculateNormalized(content) {
			w.logger.Verbose("Rewriting %s (formatting only)", path)
		}
	}

	if err := w.fs.WriteFile(path, content); err != nil {
		return Unchanged, fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.logger.Verbose("Wrote %s", path)
	w.observer.ArtifactWritten(kind)
	return Written, nil
}
