package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/internal/retry"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// ObjectPutter is the slice of the S3 API the publisher needs. *s3.Client
// satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ ObjectPutter = (*s3.Client)(nil)

// Target names the destination bucket and key prefix.
type Target struct {
	Bucket string
	Prefix string
}

// Object is one uploaded artifact.
type Object struct {
	Path string
	Key  string
	Size int
}

// Publisher uploads the route table and registration files of a module.
type Publisher struct {
	client   ObjectPutter
	fs       filesystem.FileSystemProvider
	executor *retry.Executor
	logger   arkroute.Logger
	now      func() time.Time
}

type Option func(*Publisher)

func WithLogger(l arkroute.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithExecutor replaces the retry policy for individual uploads.
func WithExecutor(e *retry.Executor) Option {
	return func(p *Publisher) {
		if e != nil {
			p.executor = e
		}
	}
}

func New(client ObjectPutter, fs filesystem.FileSystemProvider, opts ...Option) *Publisher {
	if client == nil {
		panic("object client cannot be nil")
	}
	if fs == nil {
		panic("filesystem cannot be nil")
	}

	p := &Publisher{
		client:   client,
		fs:       fs,
		executor: retry.NewExecutor(retry.NewUploadErrorClassifier(), retry.NewExponentialBackoff(3)),
		logger:   logging.NewNullLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewS3Client builds a client from the default AWS credential chain. An
// empty region defers to the environment and shared config.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %v: %w", err, arkroute.ErrPublish)
	}
	return s3.NewFromConfig(cfg), nil
}

// Artifacts lists what Publish uploads: the route table followed by every
// REX*.ets file directly in the generated directory, sorted by name.
func Artifacts(fs filesystem.FileSystemProvider, cfg *arkroute.PipelineConfig) ([]string, error) {
	if !filesystem.IsRegularFile(fs, cfg.RouteTablePath) {
		return nil, fmt.Errorf("route table %s not found, run generate first: %w", cfg.RouteTablePath, arkroute.ErrPublish)
	}
	files := []string{cfg.RouteTablePath}

	if !filesystem.Exists(fs, cfg.GeneratedOutputDir) {
		return files, nil
	}
	entries, err := fs.ReadDir(cfg.GeneratedOutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", cfg.GeneratedOutputDir, err)
	}

	var generated []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, arkroute.GeneratedFilePrefix) || !strings.HasSuffix(name, arkroute.SourceExtension) {
			continue
		}
		generated = append(generated, filepath.Join(cfg.GeneratedOutputDir, name))
	}
	sort.Strings(generated)
	return append(files, generated...), nil
}

// ObjectKey maps a module file to its key under prefix.
func ObjectKey(prefix, moduleDir, file string) (string, error) {
	rel, err := filepath.Rel(moduleDir, file)
	if err != nil {
		return "", err
	}
	return path.Join(strings.Trim(prefix, "/"), filepath.ToSlash(rel)), nil
}

func contentType(file string) string {
	if strings.HasSuffix(file, ".json") {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Publish uploads every artifact of cfg to target. The first failed upload
// stops the run; objects already uploaded stay.
func (p *Publisher) Publish(ctx context.Context, cfg *arkroute.PipelineConfig, target Target) ([]Object, error) {
	if target.Bucket == "" {
		return nil, fmt.Errorf("publish bucket is required: %w", arkroute.ErrInvalidConfig)
	}

	files, err := Artifacts(p.fs, cfg)
	if err != nil {
		return nil, err
	}

	stamp := p.now().UTC().Format(time.RFC3339)
	var uploaded []Object
	for _, file := range files {
		key, err := ObjectKey(target.Prefix, cfg.ModuleDir, file)
		if err != nil {
			return uploaded, fmt.Errorf("failed to derive key for %s: %v: %w", file, err, arkroute.ErrPublish)
		}
		body, err := p.fs.ReadFile(file)
		if err != nil {
			return uploaded, fmt.Errorf("failed to read %s: %w", file, err)
		}

		err = p.executor.Execute(ctx, func(ctx context.Context) error {
			_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(target.Bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(body),
				ContentType: aws.String(contentType(file)),
				Metadata: map[string]string{
					"arkroute-module":  cfg.ModuleName,
					"arkroute-publish": stamp,
				},
			})
			return err
		})
		if err != nil {
			return uploaded, fmt.Errorf("failed to upload s3://%s/%s: %v: %w", target.Bucket, key, err, arkroute.ErrPublish)
		}

		p.logger.Verbose("Uploaded s3://%s/%s (%d bytes)", target.Bucket, key, len(body))
		uploaded = append(uploaded, Object{Path: file, Key: key, Size: len(body)})
	}

	p.logger.Info("Published %d artifact(s) to s3://%s/%s", len(uploaded), target.Bucket, strings.Trim(target.Prefix, "/"))
	return uploaded, nil
}
