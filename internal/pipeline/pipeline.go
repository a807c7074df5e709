package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vvka-141/arkroute/internal/annotation"
	"github.com/vvka-141/arkroute/internal/artifact"
	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/files/scanner"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/internal/manifest"
	"github.com/vvka-141/arkroute/internal/metrics"
	"github.com/vvka-141/arkroute/internal/registry"
	"github.com/vvka-141/arkroute/internal/render"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

const tracerName = "github.com/vvka-141/arkroute/pipeline"

// Recorder receives run statistics.
type Recorder interface {
	artifact.Observer
	FileScanned(pages int)
	ScanFailed()
	RunFinished(d time.Duration, err error)
}

var _ Recorder = (*metrics.Collector)(nil)

type nopRecorder struct{}

func (nopRecorder) ArtifactWritten(string)           {}
func (nopRecorder) ArtifactDeleted(string)           {}
func (nopRecorder) FileScanned(int)                  {}
func (nopRecorder) ScanFailed()                      {}
func (nopRecorder) RunFinished(time.Duration, error) {}

// FileError is a source file that could not be scanned.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Result summarizes one run.
type Result struct {
	RunID      string
	DryRun     bool
	Files      int
	FileErrors []FileError
	Registry   registry.Registry

	Written   int
	Deleted   int
	Unchanged int
	Pruned    []string
	Manifest  manifest.Result
	Duration  time.Duration
}

// Pages returns the number of routed pages found.
func (r *Result) Pages() int {
	return r.Registry.PageCount()
}

func (r *Result) count(c artifact.Change) {
	switch c {
	case artifact.Written:
		r.Written++
	case artifact.Deleted:
		r.Deleted++
	default:
		r.Unchanged++
	}
}

// Runner executes generation runs. A Runner is not safe for concurrent
// Run calls; callers serialize runs.
type Runner struct {
	fs        filesystem.FileSystem
	logger    arkroute.Logger
	collector arkroute.FileCollector
	scanner   arkroute.SourceScanner
	recorder  Recorder
	tracer    trace.Tracer
	newID     func() string
}

type Option func(*Runner)

func WithLogger(l arkroute.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder reports statistics to rec, typically a *metrics.Collector.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

func WithCollector(c arkroute.FileCollector) Option {
	return func(r *Runner) {
		if c != nil {
			r.collector = c
		}
	}
}

func WithSourceScanner(s arkroute.SourceScanner) Option {
	return func(r *Runner) {
		if s != nil {
			r.scanner = s
		}
	}
}

// New creates a runner over fs. Unless overridden, files are collected and
// scanned through fs as well.
func New(fs filesystem.FileSystem, opts ...Option) *Runner {
	if fs == nil {
		panic("filesystem cannot be nil")
	}

	r := &Runner{
		fs:       fs,
		logger:   logging.NewNullLogger(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.collector == nil {
		r.collector = scanner.NewScannerWithFS(fs)
	}
	if r.scanner == nil {
		r.scanner = annotation.NewScannerWithFS(fs, r.logger)
	}
	return r
}

// Run scans cfg.ScanRoot and regenerates every artifact. Files that fail
// to scan are logged and reported in the result; stage failures abort the
// run with artifacts written so far left in place.
func (r *Runner) Run(ctx context.Context, cfg *arkroute.PipelineConfig) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline config is required: %w", arkroute.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{RunID: r.newID(), DryRun: cfg.DryRun}
	log := logging.WithPrefix(r.logger, "run="+res.RunID)

	ctx, span := r.tracer.Start(ctx, "arkroute.generate", trace.WithAttributes(
		attribute.String("arkroute.run_id", res.RunID),
		attribute.String("arkroute.module", cfg.ModuleName),
		attribute.Bool("arkroute.dry_run", cfg.DryRun),
	))
	defer span.End()

	err := r.run(ctx, cfg, res, log)
	res.Duration = time.Since(start)
	r.recorder.RunFinished(res.Duration, err)

	span.SetAttributes(
		attribute.Int("arkroute.files", res.Files),
		attribute.Int("arkroute.pages", res.Pages()),
		attribute.Int("arkroute.file_errors", len(res.FileErrors)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	span.SetStatus(codes.Ok, "")

	log.Info("%d page(s) in %d file(s): %d written, %d deleted, %d unchanged (%s)",
		res.Pages(), res.Files, res.Written, res.Deleted, res.Unchanged, res.Duration.Round(time.Millisecond))
	return res, nil
}

func (r *Runner) run(ctx context.Context, cfg *arkroute.PipelineConfig, res *Result, log arkroute.Logger) error {
	log.Verbose("Scanning %s for module %s", cfg.ScanRoot, cfg.ModuleName)

	var files []string
	err := r.stage(ctx, "collect", func(context.Context) error {
		var err error
		files, err = r.collector.Collect(cfg.ScanRoot)
		return err
	})
	if err != nil {
		return err
	}

	var found []arkroute.FileMatches
	err = r.stage(ctx, "scan", func(ctx context.Context) error {
		found = r.scanAll(ctx, cfg, files, res, log)
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	res.Registry, err = registry.Aggregate(registry.NamingContextFor(cfg), found)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		log.Info("Dry run: %d route(s) found, nothing written", res.Registry.Table.Len())
		return nil
	}

	renderer, err := render.Load(r.fs, cfg.TemplatePath)
	if err != nil {
		return err
	}
	w := artifact.NewWriter(r.fs, cfg, renderer,
		artifact.WithLogger(log),
		artifact.WithObserver(r.recorder),
	)

	err = r.stage(ctx, "write", func(context.Context) error {
		change, err := w.WriteRouteTable(res.Registry.Table)
		if err != nil {
			return err
		}
		res.count(change)

		for _, group := range routedFirst(res.Registry.Groups) {
			change, err := w.WriteRegistration(group)
			if err != nil {
				return err
			}
			res.count(change)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = r.stage(ctx, "prune", func(context.Context) error {
		pruned, err := w.Prune()
		res.Pruned = pruned
		res.Deleted += len(pruned)
		if err != nil {
			return err
		}
		change, err := w.CleanIndex()
		res.count(change)
		return err
	})
	if err != nil {
		return err
	}

	return r.stage(ctx, "manifest", func(context.Context) error {
		patched, err := manifest.NewPatcher(r.fs, log).Patch(cfg.ManifestPath)
		res.Manifest = patched
		return err
	})
}

// routedFirst orders groups with pages before empty ones, keeping discovery
// order within each half, so a source without routes never deletes the file
// of a routed source with the same base name.
func routedFirst(groups []registry.FileGroup) []registry.FileGroup {
	out := make([]registry.FileGroup, 0, len(groups))
	for _, g := range groups {
		if !g.Empty() {
			out = append(out, g)
		}
	}
	for _, g := range groups {
		if g.Empty() {
			out = append(out, g)
		}
	}
	return out
}

// scanAll scans each file, isolating failures to the file that caused them.
// Files inside the generated directory are skipped.
func (r *Runner) scanAll(ctx context.Context, cfg *arkroute.PipelineConfig, files []string, res *Result, log arkroute.Logger) []arkroute.FileMatches {
	found := make([]arkroute.FileMatches, 0, len(files))
	for _, file := range files {
		if ctx.Err() != nil {
			return found
		}
		if within(cfg.GeneratedOutputDir, file) {
			continue
		}

		res.Files++
		matches, err := r.scanner.ScanFile(file)
		if err != nil {
			log.Error("Skipping %s: %v", scanner.RelativeTo(cfg.ModuleDir, file), err)
			res.FileErrors = append(res.FileErrors, FileError{File: file, Err: err})
			r.recorder.ScanFailed()
			continue
		}

		r.recorder.FileScanned(len(matches))
		found = append(found, arkroute.FileMatches{SourceFile: file, Matches: matches})
	}
	return found
}

func (r *Runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
