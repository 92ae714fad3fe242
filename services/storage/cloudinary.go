package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorageService implements StorageService on Cloudinary.
type CloudinaryStorageService struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryStorageService builds the service from account credentials.
func NewCloudinaryStorageService(cloudName, apiKey, apiSecret string) (*CloudinaryStorageService, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStorageService{cld: cld, cloudName: cloudName}, nil
}

// UploadFile streams file into destFolder. The public id is derived from the
// file name without its extension.
func (s *CloudinaryStorageService) UploadFile(ctx context.Context, file io.Reader, destFolder, filename string) (*UploadResult, error) {
	params := uploader.UploadParams{Folder: destFolder}
	if name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)); name != "" && name != "." {
		params.PublicID = name
	}

	resp, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to Cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload error: %s", resp.Error.Message)
	}
	return &UploadResult{PublicID: resp.PublicID, SecureURL: resp.SecureURL}, nil
}

// DeleteFile removes an asset by public id. Missing assets are not an error.
func (s *CloudinaryStorageService) DeleteFile(ctx context.Context, publicID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary delete error: %s", resp.Error.Message)
	}
	return nil
}

// URL returns the delivery URL of an image asset.
func (s *CloudinaryStorageService) URL(publicID string) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build image url: %w", err)
	}
	return img.String()
}
