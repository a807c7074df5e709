package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/pipeline"
	"github.com/vvka-141/arkroute/internal/publish"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

var publishCmd = &cobra.Command{
	Use:   "publish [module_dir]",
	Short: "Upload the route table and registration files to S3",
	Long: `Upload route_map.json and every generated REX*.ets file to
s3://<bucket>/<prefix>/<path relative to the module>.

Credentials come from the default AWS chain (environment, shared config,
instance role). Bucket, prefix and region fall back to the publish section of
arkroute.yaml and ARKROUTE_PUBLISH_* variables.

Examples:
  arkroute publish --bucket app-routes --prefix entry
  arkroute publish --generate             # run generate first`,
	Args:              OptionalModuleDir,
	ValidArgsFunction: completeModuleDir,
	RunE:              runPublish,
}

type publishOptions struct {
	module   moduleFlags
	bucket   string
	prefix   string
	region   string
	generate bool
}

var publishFlags publishOptions

// newObjectPutter is replaced in tests.
var newObjectPutter = func(ctx context.Context, region string) (publish.ObjectPutter, error) {
	return publish.NewS3Client(ctx, region)
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishFlags.module.register(publishCmd)
	publishCmd.Flags().StringVar(&publishFlags.bucket, "bucket", "", "Destination bucket")
	publishCmd.Flags().StringVar(&publishFlags.prefix, "prefix", "", "Key prefix inside the bucket")
	publishCmd.Flags().StringVar(&publishFlags.region, "region", "", "AWS region (default: from the AWS environment)")
	publishCmd.Flags().BoolVar(&publishFlags.generate, "generate", false, "Run generate before uploading")
}

func runPublish(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	ctx := commandContext(cmd)

	moduleDir, err := moduleDirArg(args)
	if err != nil {
		return fmt.Errorf("%v: %w", err, arkroute.ErrInvalidConfig)
	}
	cfg, projectCfg, err := resolveModule(moduleDir, publishFlags.module, logger)
	if err != nil {
		return err
	}

	target := publish.Target{
		Bucket: firstNonEmpty(publishFlags.bucket, projectCfg.Publish.Bucket),
		Prefix: firstNonEmpty(publishFlags.prefix, projectCfg.Publish.Prefix),
	}
	if target.Bucket == "" {
		return fmt.Errorf("no bucket: pass --bucket or set publish.bucket in %s: %w", arkroute.ConfigFileName, arkroute.ErrInvalidConfig)
	}
	region := firstNonEmpty(publishFlags.region, projectCfg.Publish.Region)

	fs := filesystem.NewOSFileSystem()
	if publishFlags.generate {
		if _, err := pipeline.New(fs, pipeline.WithLogger(logger)).Run(ctx, cfg); err != nil {
			return err
		}
	}

	client, err := newObjectPutter(ctx, region)
	if err != nil {
		return err
	}

	objects, err := publish.New(client, fs, publish.WithLogger(logger)).Publish(ctx, cfg, target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, o := range objects {
		fmt.Fprintf(out, "s3://%s/%s\n", target.Bucket, o.Key)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
