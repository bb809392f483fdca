package blob

import (
	"context"
	"fmt"

	"annexvii/internal/config"
)

// Open builds the Store selected by cfg.Driver. An empty driver means memory.
func Open(ctx context.Context, cfg config.Blob) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}
