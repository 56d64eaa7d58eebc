package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/pkg/filestorage"
)

// DocumentService stores standalone uploads, e.g. files attached to a
// direct submission, and returns their public URLs
type DocumentService struct {
	storage filestorage.FileStorage
	policy  filestorage.Policy
	logger  zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(storage filestorage.FileStorage, maxUploadMB int, logger zerolog.Logger) *DocumentService {
	return &DocumentService{
		storage: storage,
		policy:  filestorage.DocumentPolicy(maxUploadMB),
		logger:  logger,
	}
}

// Upload checks and stores a file under the actor's folder
func (s *DocumentService) Upload(ctx context.Context, actor authz.Actor, filename string, content io.Reader) (*filestorage.StoredFile, error) {
	upload, err := s.policy.Read(filename, content)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.Save(ctx, fmt.Sprintf("documents/%d", actor.UserID), upload)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	s.logger.Info().Int64("userID", actor.UserID).Str("key", stored.Key).Int64("size", stored.Size).Msg("Document uploaded")
	return stored, nil
}
