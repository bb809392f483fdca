package blob

import (
	"context"

	"annexvii/internal/config"
	infraS3 "annexvii/internal/infra/blob/s3"
)

// NewS3 returns an S3 backed Store for a single bucket.
func NewS3(ctx context.Context, cfg config.S3) (Store, error) {
	return infraS3.New(ctx, infraS3.Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		PathStyle:       cfg.PathStyle,
	})
}

// NewMockS3ForTests returns an S3 Store over an in-process fake transport.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
