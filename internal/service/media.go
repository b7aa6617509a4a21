package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository"
	"github.com/lalith-99/taskdeck/internal/storage"
)

// Presigner issues browser upload URLs.
type Presigner interface {
	PresignPut(ctx context.Context, fileName, contentType string) (*storage.PresignedUpload, error)
}

// ObjectUploader stores a file server-side and returns its public URL.
// Delete takes a URL returned by Put.
type ObjectUploader interface {
	Put(ctx context.Context, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// ClassifyContentType maps a MIME type to a media type. The first
// case-insensitive substring match wins, in the order image, video, pdf,
// audio.
func ClassifyContentType(contentType string) models.MediaType {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "image"):
		return models.MediaTypeImage
	case strings.Contains(ct, "video"):
		return models.MediaTypeVideo
	case strings.Contains(ct, "pdf"):
		return models.MediaTypePDF
	case strings.Contains(ct, "audio"):
		return models.MediaTypeAudio
	}
	return models.MediaTypeOther
}

type MediaService struct {
	media     repository.MediaRepository
	presigner Presigner
	logger    *zap.Logger
}

func NewMediaService(media repository.MediaRepository, presigner Presigner, logger *zap.Logger) *MediaService {
	return &MediaService{media: media, presigner: presigner, logger: logger}
}

// Register records a file the caller already uploaded.
func (s *MediaService) Register(ctx context.Context, caller *models.User, fileURL, originalName, contentType string) (*models.MediaContent, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fileURL) == "" || strings.TrimSpace(originalName) == "" || strings.TrimSpace(contentType) == "" {
		return nil, invalid("fileUrl, originalName and contentType are required")
	}

	m := &models.MediaContent{
		UserID:       caller.ID,
		Type:         ClassifyContentType(contentType),
		URL:          fileURL,
		OriginalName: originalName,
	}
	if err := s.media.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("register media: %w", err)
	}

	s.logger.Info("media registered",
		zap.Int64("media_id", m.ID),
		zap.String("type", string(m.Type)),
	)
	return m, nil
}

// Presign returns a signed PUT URL for a new object.
func (s *MediaService) Presign(ctx context.Context, caller *models.User, fileName, contentType string) (*storage.PresignedUpload, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(contentType) == "" {
		return nil, invalid("fileName and contentType are required")
	}

	out, err := s.presigner.PresignPut(ctx, fileName, contentType)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w: %w", ErrUpstream, err)
	}
	return out, nil
}
