package model

import (
	"context"
	"io"
)

// Storage is an object store used to mirror exported files.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}
