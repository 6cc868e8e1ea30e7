package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"print-order-backend/internal/estimator"
)

type UploadedFile struct {
	FileID       string
	Filename     string
	OriginalName string
	ContentType  string
	Pages        int
	StoragePath  string
}

// FileService estimates and stores uploaded documents.
type FileService struct {
	content ContentStore
	maxSize int64
}

func NewFileService(content ContentStore, maxSize int64) *FileService {
	return &FileService{content: content, maxSize: maxSize}
}

// Upload estimates the page count first so unsupported or unreadable files
// are never stored.
func (s *FileService) Upload(ctx context.Context, originalName string, data []byte) (*UploadedFile, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	result, err := estimator.Estimate(data, originalName)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New().String()
	filename := fileID + strings.ToLower(filepath.Ext(originalName))

	storagePath, err := s.content.Put(ctx, filename, result.ContentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	slog.InfoContext(ctx, "file uploaded",
		"file_id", fileID,
		"original_name", originalName,
		"kind", result.Kind,
		"pages", result.Pages,
		"size", len(data),
	)

	return &UploadedFile{
		FileID:       fileID,
		Filename:     filename,
		OriginalName: originalName,
		ContentType:  result.ContentType,
		Pages:        result.Pages,
		StoragePath:  storagePath,
	}, nil
}

// Open returns stored content. Names that could escape the store's root
// are rejected.
func (s *FileService) Open(ctx context.Context, filename string) ([]byte, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return nil, ErrInvalidFilename
	}
	return s.content.Get(ctx, filename)
}
