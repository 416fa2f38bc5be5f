package service

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/golden-glimpses/internal/adapter"
	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/media"
	"github.com/MKhiriev/golden-glimpses/internal/validators"
	"github.com/MKhiriev/golden-glimpses/models"
)

const octetStream = "application/octet-stream"

type mediaService struct {
	host          adapter.MediaHost
	ids           IDGenerator
	maxUploadSize int64

	logger *logger.Logger
}

func NewMediaService(host adapter.MediaHost, ids IDGenerator, cfg config.Files, logger *logger.Logger) MediaService {
	return &mediaService{
		host:          host,
		ids:           ids,
		maxUploadSize: cfg.MaxUploadSize,
		logger:        logger,
	}
}

// Upload stores the bytes under "<ownerID>/<id><ext>". The content type
// falls back to the filename extension when the client sent none.
func (s *mediaService) Upload(ctx context.Context, ownerID string, upload models.Upload) (models.UploadedMedia, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(ownerID) == "" {
		return models.UploadedMedia{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrEmptyOwnerID)
	}
	if upload.Body == nil || upload.Size <= 0 {
		return models.UploadedMedia{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, ErrEmptyUpload)
	}
	if s.maxUploadSize > 0 && upload.Size > s.maxUploadSize {
		return models.UploadedMedia{}, fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, upload.Size)
	}

	filename := path.Base(filepath.ToSlash(strings.TrimSpace(upload.Filename)))
	if filename == "." || filename == "/" {
		filename = ""
	}
	ext := strings.ToLower(path.Ext(filename))

	contentType := detectContentType(upload.ContentType, ext)
	if !isAllowedContentType(contentType) || isActiveExtension(ext) {
		log.Warn().Str("func", "*mediaService.Upload").Str("content_type", contentType).Msg("rejecting upload")
		return models.UploadedMedia{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	key := ownerID + "/" + s.ids.Generate() + ext
	stored, err := s.host.Upload(ctx, adapter.UploadObject{
		Key:         key,
		Body:        upload.Body,
		Size:        upload.Size,
		ContentType: contentType,
		Filename:    filename,
	})
	if err != nil {
		log.Err(err).Str("func", "*mediaService.Upload").Str("key", key).Msg("error uploading media")
		return models.UploadedMedia{}, fmt.Errorf("%w: %w", ErrMediaUploadFailed, err)
	}

	log.Debug().Str("func", "*mediaService.Upload").Str("key", key).Str("url", stored.URL).Msg("media uploaded")
	return models.UploadedMedia{
		MediaItem: models.MediaItem{
			URL:      stored.URL,
			Type:     media.TypeFromMIME(contentType),
			Filename: filename,
		},
		PublicID: stored.PublicID,
	}, nil
}

func (s *mediaService) Remove(ctx context.Context, publicID string) error {
	if err := s.host.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("error removing media: %w", err)
	}
	return nil
}

func detectContentType(declared, ext string) string {
	contentType := declared
	if parsed, _, err := mime.ParseMediaType(declared); err == nil {
		contentType = parsed
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	if (contentType == "" || contentType == octetStream) && ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
				return parsed
			}
		}
	}
	if contentType == "" {
		return octetStream
	}
	return contentType
}

// activeContentTypes are rendered or executed by browsers when served from
// the API origin.
var activeContentTypes = map[string]bool{
	"text/html":              true,
	"application/xhtml+xml":  true,
	"image/svg+xml":          true,
	"text/javascript":        true,
	"application/javascript": true,
	"text/xml":               true,
	"application/xml":        true,
}

var allowedTextTypes = map[string]bool{
	"text/plain":    true,
	"text/markdown": true,
	"text/csv":      true,
}

func isAllowedContentType(contentType string) bool {
	if activeContentTypes[contentType] {
		return false
	}
	if strings.HasPrefix(contentType, "text/") {
		return allowedTextTypes[contentType]
	}
	for _, prefix := range []string{"image/", "video/", "audio/"} {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return contentType == "application/pdf"
}

// isActiveExtension reports whether files named with ext are served as an
// active content type, whatever type the client declared.
func isActiveExtension(ext string) bool {
	byExt := mime.TypeByExtension(ext)
	if byExt == "" {
		return false
	}
	parsed, _, err := mime.ParseMediaType(byExt)
	return err == nil && activeContentTypes[strings.ToLower(parsed)]
}
