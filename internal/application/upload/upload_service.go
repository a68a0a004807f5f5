// Package upload hands out presigned URLs so clients upload profile photos
// and logos straight to object storage.
package upload

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// PresignRequest asks for an upload slot
type PresignRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=photos logos"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadService issues presigned upload URLs
type UploadService struct {
	storage storage.ObjectStorage
	logger  *zap.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(objects storage.ObjectStorage, logger *zap.Logger) *UploadService {
	return &UploadService{storage: objects, logger: logger}
}

// Presign returns a PUT URL for a new object. The client stores the
// returned public URL on its profile once the upload succeeds.
func (s *UploadService) Presign(ctx context.Context, profileID uuid.UUID, req PresignRequest) (*storage.PresignedURL, error) {
	key, err := storage.UploadKey(storage.UploadKind(req.Kind), req.ContentType)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_UPLOAD", err.Error())
	}

	presigned, err := s.storage.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Upload presigned",
		zap.String("profile_id", profileID.String()),
		zap.String("key", key),
	)
	return &presigned, nil
}
