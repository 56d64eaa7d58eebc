package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yigit/edupath/internal/pkg/logger"
)

// LocalStorage saves files to a directory that the router serves under /uploads.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // public URL prefix, e.g. http://localhost:8080/uploads
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the directory served as static files.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save writes upload below folder with a unique name.
func (ls *LocalStorage) Save(_ context.Context, folder string, upload *Upload) (*StoredFile, error) {
	key := objectKey(folder, upload)
	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, reader(upload)); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	url := "/uploads/" + key
	if ls.baseURL != "" {
		url = ls.baseURL + "/" + key
	}

	logger.Debug().Str("filename", upload.Name).Str("key", key).Msg("File saved")
	return &StoredFile{
		Key:         key,
		URL:         url,
		Name:        upload.Name,
		Size:        upload.Size(),
		ContentType: upload.ContentType,
	}, nil
}

// Delete removes the file stored under key. Keys escaping the base directory are rejected.
func (ls *LocalStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}

	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "" || clean == "." {
		return fmt.Errorf("invalid file key: %s", key)
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(clean))
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
