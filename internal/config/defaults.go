package config

import "time"

const (
	defaultHTTPAddress          = ":8080"
	defaultGRPCAddress          = ":9090"
	defaultRequestTimeout       = 30 * time.Second
	defaultCountdownInterval    = time.Second
	defaultShutdownTimeout      = 10 * time.Second
	defaultTokenIssuer          = "golden-glimpses"
	defaultAccessTokenDuration  = 15 * time.Minute
	defaultRefreshTokenDuration = 30 * 24 * time.Hour
	defaultLogLevel             = "info"
	defaultSQLiteDSN            = "golden-glimpses.db"
	defaultMongoDatabase        = "golden_glimpses"
	defaultMongoConnectTimeout  = 10 * time.Second
	defaultFilesDir             = "uploads"
	defaultMaxUploadSize        = 50 << 20
	defaultCloudinaryBaseURL    = "https://api.cloudinary.com"
	defaultCloudinaryTimeout    = 60 * time.Second
	defaultTokenCleanupInterval = time.Hour
	defaultHealthCheckInterval  = 15 * time.Second
)

// applyDefaults fills fields that no source has set.
func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.App.TokenIssuer, defaultTokenIssuer)
	setDefault(&cfg.App.AccessTokenDuration, defaultAccessTokenDuration)
	setDefault(&cfg.App.RefreshTokenDuration, defaultRefreshTokenDuration)
	setDefault(&cfg.App.RefreshHashKey, cfg.App.TokenSignKey)
	setDefault(&cfg.App.LogLevel, defaultLogLevel)

	setDefault(&cfg.Storage.Driver, DriverMemory)
	if cfg.Storage.Driver == DriverSQLite {
		setDefault(&cfg.Storage.DB.DSN, defaultSQLiteDSN)
	}
	setDefault(&cfg.Storage.Mongo.Database, defaultMongoDatabase)
	setDefault(&cfg.Storage.Mongo.ConnectTimeout, defaultMongoConnectTimeout)

	setDefault(&cfg.Storage.Files.Driver, FilesDriverLocal)
	setDefault(&cfg.Storage.Files.Dir, defaultFilesDir)
	setDefault(&cfg.Storage.Files.MaxUploadSize, defaultMaxUploadSize)
	setDefault(&cfg.Storage.Files.Cloudinary.BaseURL, defaultCloudinaryBaseURL)
	setDefault(&cfg.Storage.Files.Cloudinary.Timeout, defaultCloudinaryTimeout)

	setDefault(&cfg.Server.HTTPAddress, defaultHTTPAddress)
	setDefault(&cfg.Server.GRPCAddress, defaultGRPCAddress)
	setDefault(&cfg.Server.RequestTimeout, defaultRequestTimeout)
	setDefault(&cfg.Server.CountdownInterval, defaultCountdownInterval)
	setDefault(&cfg.Server.ShutdownTimeout, defaultShutdownTimeout)

	setDefault(&cfg.Workers.TokenCleanupInterval, defaultTokenCleanupInterval)
	setDefault(&cfg.Workers.HealthCheckInterval, defaultHealthCheckInterval)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
