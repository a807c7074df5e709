// Package publish uploads generated artifacts to S3 compatible storage so
// other build stages can fetch the route table without rerunning the
// scanner.
package publish
