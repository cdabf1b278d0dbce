package port

import "context"

// DatasetFetcher retrieves a raw disclosure dataset from object storage.
type DatasetFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}
