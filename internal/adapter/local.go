package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
)

// UploadsRoute is the URL prefix under which local media is served.
const UploadsRoute = "/uploads"

type localMediaHost struct {
	dir       string
	publicURL string
	logger    *logger.Logger
}

// NewLocalMediaHost stores media under cfg.Dir. Object URLs are
// <cfg.PublicURL>/uploads/<key>; with an empty PublicURL they are
// host-relative.
func NewLocalMediaHost(cfg config.Files, logger *logger.Logger) (*localMediaHost, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: empty local media dir", ErrMediaHostConfig)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMediaHostConfig, err)
	}

	return &localMediaHost{
		dir:       cfg.Dir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger,
	}, nil
}

// Dir is the directory the HTTP server serves under [UploadsRoute].
func (l *localMediaHost) Dir() string {
	return l.dir
}

func (l *localMediaHost) Upload(ctx context.Context, obj UploadObject) (StoredObject, error) {
	log := logger.FromContext(ctx)

	target, err := l.pathFor(obj.Key)
	if err != nil {
		return StoredObject{}, err
	}
	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		log.Err(err).Str("func", "*localMediaHost.Upload").Msg("error creating media dir")
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	// written to a temp file first so a partial upload never becomes visible
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		log.Err(err).Str("func", "*localMediaHost.Upload").Msg("error creating temp file")
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = io.Copy(tmp, contextReader{ctx: ctx, r: obj.Body}); err != nil {
		tmp.Close()
		log.Err(err).Str("func", "*localMediaHost.Upload").Str("key", obj.Key).Msg("error writing media")
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if err = tmp.Close(); err != nil {
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		log.Err(err).Str("func", "*localMediaHost.Upload").Str("key", obj.Key).Msg("error moving media in place")
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	log.Debug().Str("func", "*localMediaHost.Upload").Str("key", obj.Key).Msg("media stored on disk")
	return StoredObject{
		URL:      l.publicURL + path.Join(UploadsRoute, obj.Key),
		PublicID: obj.Key,
	}, nil
}

func (l *localMediaHost) Delete(ctx context.Context, publicID string) error {
	target, err := l.pathFor(publicID)
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Err(err).Str("func", "*localMediaHost.Delete").Str("key", publicID).Msg("error removing media")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

// pathFor resolves key inside the media dir, rejecting anything that would
// escape it.
func (l *localMediaHost) pathFor(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectKey, key)
	}
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectKey, key)
	}
	return filepath.Join(l.dir, rel), nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
