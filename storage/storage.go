// Package storage writes exported report files to the local filesystem or S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"transparency-backend/config"
)

// ErrNotFound is returned when a stored file does not exist
var ErrNotFound = errors.New("file not found")

// Storage interface for exported file operations
type Storage interface {
	// Upload stores data under key and returns its location
	Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error)

	// Download retrieves a file by key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by key
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ReportKey builds the key of an exported report: one folder per user, one file per chat
func ReportKey(userID, chatID, fileName string) string {
	ext := filepath.Ext(fileName)
	base := sanitize(strings.TrimSuffix(fileName, ext))
	if base == "" {
		base = "report"
	}
	return path.Join(sanitize(userID), sanitize(chatID)+"_"+base+ext)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}

// cleanKey rejects keys that would escape the storage root
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + filepath.ToSlash(key))[1:]
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return cleaned, nil
}
