package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"print-order-backend/internal/models"
)

const uploadsPrefix = "uploads"

// StorageClient keeps uploaded documents in a Supabase Storage bucket.
type StorageClient struct {
	client *storage.Client
	bucket string
}

func newStorageClient(client *storage.Client, bucket string) *StorageClient {
	return &StorageClient{client: client, bucket: bucket}
}

func storagePath(filename string) string {
	return fmt.Sprintf("%s/%s", uploadsPrefix, filename)
}

func (s *StorageClient) Put(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := storagePath(filename)
	upsert := false
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return path, nil
}

func (s *StorageClient) Get(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.client.DownloadFile(s.bucket, storagePath(filename))
	if err != nil {
		if isObjectNotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}

// The storage API does not always fill in the status field, so the message
// is checked as well.
func isObjectNotFound(err error) bool {
	var storageErr *storage.StorageError
	if errors.As(err, &storageErr) && storageErr.Status == http.StatusNotFound {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}
