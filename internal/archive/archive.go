// Package archive stores rendered exports in a blob backend (filesystem, memory or S3).
package archive

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Drivers accepted by Open.
const (
	DriverNone = "none"
	DriverFS   = "fs"
	DriverS3   = "s3"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("archive: object not found")

// Store keeps export files by key. Put overwrites existing objects.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Config selects and configures a driver.
type Config struct {
	Driver string
	Dir    string // fs
	S3     S3Config
}

// Open builds the configured store. DriverNone (or empty) yields a nil store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverFS:
		return NewFS(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}

// sanitizeKey rejects keys that could escape the archive root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
