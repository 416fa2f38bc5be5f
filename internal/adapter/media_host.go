package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
)

// NewMediaHost returns the media host selected by cfg.Driver.
func NewMediaHost(ctx context.Context, cfg config.Files, logger *logger.Logger) (MediaHost, error) {
	var (
		host MediaHost
		err  error
	)

	switch cfg.Driver {
	case config.FilesDriverLocal, "":
		host, err = asMediaHost(NewLocalMediaHost(cfg, logger))
	case config.FilesDriverS3:
		host, err = asMediaHost(NewS3MediaHost(ctx, cfg.S3, logger))
	case config.FilesDriverCloudinary:
		host, err = asMediaHost(NewCloudinaryMediaHost(cfg.Cloudinary, logger))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMediaHost, cfg.Driver)
	}
	if err != nil {
		logger.Err(err).Str("func", "adapter.NewMediaHost").Str("driver", cfg.Driver).Msg("error creating media host")
		return nil, err
	}

	logger.Info().Str("func", "adapter.NewMediaHost").Str("driver", cfg.Driver).Msg("media host ready")
	return host, nil
}

// asMediaHost keeps a failed constructor from yielding a non-nil interface
// around a nil pointer.
func asMediaHost[T MediaHost](host T, err error) (MediaHost, error) {
	if err != nil {
		return nil, err
	}
	return host, nil
}
