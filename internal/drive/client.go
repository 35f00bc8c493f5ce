package drive

import (
	"context"
	"fmt"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/scriptsync/internal/google"
	"github.com/teemow/scriptsync/internal/instrumentation"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// SpreadsheetMimeType is the MIME type for Google Sheets documents
	SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
)

// fileFields are the metadata fields requested for a file
const fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents, owners(displayName, emailAddress), trashed"

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
	metrics *instrumentation.Metrics
}

// NewClient creates a new Google Drive client. Options are passed to the API service.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
	}, nil
}

// NewClientWithProvider creates a Drive client authenticated by provider.
func NewClientWithProvider(ctx context.Context, provider google.TokenProvider) (*Client, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token source: %w", err)
	}

	return NewClient(ctx, option.WithHTTPClient(google.NewHTTPClient(ctx, ts)))
}

// SetMetrics enables metric and span recording for API calls.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var file *drive.File
	err := c.metrics.ObserveGoogleAPI(ctx, instrumentation.ServiceDrive, instrumentation.OperationGet,
		func(ctx context.Context) error {
			var err error
			file, err = c.service.Files.Get(fileID).
				Context(ctx).
				Fields(fileFields).
				Do()
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return convertToFileInfo(file), nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
		Trashed:     f.Trashed,
	}

	// Parse timestamps
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	for _, owner := range f.Owners {
		if owner == nil {
			continue
		}
		fileInfo.Owners = append(fileInfo.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}

	return fileInfo
}
