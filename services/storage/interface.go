package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotConfigured is returned when no media backend credentials are set.
var ErrNotConfigured = errors.New("storage: not configured")

// UploadResult identifies an uploaded asset.
type UploadResult struct {
	PublicID  string `json:"publicId"`
	SecureURL string `json:"secureUrl"`
}

// StorageService defines the interface for media storage operations.
type StorageService interface {
	UploadFile(ctx context.Context, file io.Reader, destFolder, filename string) (*UploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
	URL(publicID string) (string, error)
}

// HomeFolder is where photos of a home are stored.
func HomeFolder(homeID string) string {
	return "homes/" + homeID
}

// Disabled rejects every operation with ErrNotConfigured.
type Disabled struct{}

func (Disabled) UploadFile(context.Context, io.Reader, string, string) (*UploadResult, error) {
	return nil, ErrNotConfigured
}

func (Disabled) DeleteFile(context.Context, string) error { return ErrNotConfigured }

func (Disabled) URL(string) (string, error) { return "", ErrNotConfigured }
