// Package retry retries transient failures with exponential backoff.
//
// Generation runs never retry; only network operations such as publishing
// artifacts to object storage go through an Executor.
//
//	executor := retry.NewExecutor(retry.NewUploadErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return upload(ctx)
//	})
package retry
