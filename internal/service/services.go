package service

import (
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/adapter"
	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/crypto"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/store"
	"github.com/MKhiriev/golden-glimpses/internal/utils"
	"github.com/MKhiriev/golden-glimpses/internal/validators"
	"github.com/MKhiriev/golden-glimpses/models"
)

type Services struct {
	AuthService    AuthService
	CapsuleService CapsuleService
	MediaService   MediaService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, mediaHost adapter.MediaHost, cfg config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	ids := utils.NewUUIDGenerator()

	appInfoService, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	mediaService := NewMediaService(mediaHost, ids, cfg.Storage.Files, logger)

	capsuleService := NewCapsuleValidationService(
		validators.NewCapsuleValidator(time.Now, cfg.App.AllowPastUnsealingDate),
	).Wrap(NewCapsuleService(storages.CapsuleRepository, mediaService, ids, time.Now, logger))

	return &Services{
		AuthService: NewAuthService(
			storages.UserRepository,
			storages.TokenRepository,
			crypto.NewPasswordHasher(),
			ids,
			cfg.App,
			logger,
		),
		CapsuleService: capsuleService,
		MediaService:   mediaService,
		AppInfoService: appInfoService,
	}, nil
}
