package http

import (
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/service"
)

const defaultCountdownInterval = time.Second

type Handler struct {
	services *service.Services

	// requestTimeout bounds every request except the countdown stream.
	// Zero disables the timeout middleware.
	requestTimeout time.Duration

	countdownInterval time.Duration

	// maxUploadSize caps multipart bodies. Zero leaves the check to the
	// media service.
	maxUploadSize int64

	// uploadsDir is served under /uploads/ when media is kept on local disk.
	uploadsDir string

	now func() time.Time

	logger *logger.Logger
}

func NewHandler(services *service.Services, server config.Server, files config.Files, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	countdownInterval := server.CountdownInterval
	if countdownInterval <= 0 {
		countdownInterval = defaultCountdownInterval
	}

	var uploadsDir string
	if files.Driver == "" || files.Driver == config.FilesDriverLocal {
		uploadsDir = files.Dir
	}

	return &Handler{
		services:          services,
		requestTimeout:    server.RequestTimeout,
		countdownInterval: countdownInterval,
		maxUploadSize:     files.MaxUploadSize,
		uploadsDir:        uploadsDir,
		now:               time.Now,
		logger:            logger,
	}
}
