package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors [StructuredConfig] with snake_case keys as they appear
// in JSON and YAML config files. Durations are written as strings like
// "30s" or "1h".
type fileConfig struct {
	App struct {
		TokenSignKey           string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer            string   `json:"token_issuer" yaml:"token_issuer"`
		AccessTokenDuration    Duration `json:"access_token_duration" yaml:"access_token_duration"`
		RefreshTokenDuration   Duration `json:"refresh_token_duration" yaml:"refresh_token_duration"`
		RefreshHashKey         string   `json:"refresh_hash_key" yaml:"refresh_hash_key"`
		Version                string   `json:"version" yaml:"version"`
		AllowPastUnsealingDate bool     `json:"allow_past_unsealing_date" yaml:"allow_past_unsealing_date"`
		LogLevel               string   `json:"log_level" yaml:"log_level"`
	} `json:"app" yaml:"app"`

	Storage struct {
		Driver string `json:"driver" yaml:"driver"`

		DB struct {
			DSN            string `json:"dsn" yaml:"dsn"`
			MaxOpenConns   int    `json:"max_open_conns" yaml:"max_open_conns"`
			MaxIdleConns   int    `json:"max_idle_conns" yaml:"max_idle_conns"`
			SkipMigrations bool   `json:"skip_migrations" yaml:"skip_migrations"`
		} `json:"db" yaml:"db"`

		Mongo struct {
			URI            string   `json:"uri" yaml:"uri"`
			Database       string   `json:"database" yaml:"database"`
			ConnectTimeout Duration `json:"connect_timeout" yaml:"connect_timeout"`
		} `json:"mongo" yaml:"mongo"`

		Files struct {
			Driver        string `json:"driver" yaml:"driver"`
			Dir           string `json:"dir" yaml:"dir"`
			PublicURL     string `json:"public_url" yaml:"public_url"`
			MaxUploadSize int64  `json:"max_upload_size" yaml:"max_upload_size"`

			S3 struct {
				Bucket       string `json:"bucket" yaml:"bucket"`
				Region       string `json:"region" yaml:"region"`
				Endpoint     string `json:"endpoint" yaml:"endpoint"`
				UsePathStyle bool   `json:"use_path_style" yaml:"use_path_style"`
				PublicURL    string `json:"public_url" yaml:"public_url"`
			} `json:"s3" yaml:"s3"`

			Cloudinary struct {
				CloudName string   `json:"cloud_name" yaml:"cloud_name"`
				APIKey    string   `json:"api_key" yaml:"api_key"`
				APISecret string   `json:"api_secret" yaml:"api_secret"`
				BaseURL   string   `json:"base_url" yaml:"base_url"`
				Folder    string   `json:"folder" yaml:"folder"`
				Timeout   Duration `json:"timeout" yaml:"timeout"`
			} `json:"cloudinary" yaml:"cloudinary"`
		} `json:"files" yaml:"files"`
	} `json:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress       string   `json:"http_address" yaml:"http_address"`
		GRPCAddress       string   `json:"grpc_address" yaml:"grpc_address"`
		RequestTimeout    Duration `json:"request_timeout" yaml:"request_timeout"`
		CountdownInterval Duration `json:"countdown_interval" yaml:"countdown_interval"`
		ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	} `json:"server" yaml:"server"`

	Workers struct {
		TokenCleanupInterval Duration `json:"token_cleanup_interval" yaml:"token_cleanup_interval"`
		HealthCheckInterval  Duration `json:"health_check_interval" yaml:"health_check_interval"`
	} `json:"workers" yaml:"workers"`
}

// parseFile decodes a JSON or YAML file, chosen by extension. Files without
// a .yaml/.yml extension are treated as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodingConfigFile, err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodingConfigFile, err)
		}
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	files := fc.Storage.Files
	return &StructuredConfig{
		App: App{
			TokenSignKey:           fc.App.TokenSignKey,
			TokenIssuer:            fc.App.TokenIssuer,
			AccessTokenDuration:    time.Duration(fc.App.AccessTokenDuration),
			RefreshTokenDuration:   time.Duration(fc.App.RefreshTokenDuration),
			RefreshHashKey:         fc.App.RefreshHashKey,
			Version:                fc.App.Version,
			AllowPastUnsealingDate: fc.App.AllowPastUnsealingDate,
			LogLevel:               fc.App.LogLevel,
		},
		Storage: Storage{
			Driver: fc.Storage.Driver,
			DB: DB{
				DSN:            fc.Storage.DB.DSN,
				MaxOpenConns:   fc.Storage.DB.MaxOpenConns,
				MaxIdleConns:   fc.Storage.DB.MaxIdleConns,
				SkipMigrations: fc.Storage.DB.SkipMigrations,
			},
			Mongo: Mongo{
				URI:            fc.Storage.Mongo.URI,
				Database:       fc.Storage.Mongo.Database,
				ConnectTimeout: time.Duration(fc.Storage.Mongo.ConnectTimeout),
			},
			Files: Files{
				Driver:        files.Driver,
				Dir:           files.Dir,
				PublicURL:     files.PublicURL,
				MaxUploadSize: files.MaxUploadSize,
				S3: S3{
					Bucket:       files.S3.Bucket,
					Region:       files.S3.Region,
					Endpoint:     files.S3.Endpoint,
					UsePathStyle: files.S3.UsePathStyle,
					PublicURL:    files.S3.PublicURL,
				},
				Cloudinary: Cloudinary{
					CloudName: files.Cloudinary.CloudName,
					APIKey:    files.Cloudinary.APIKey,
					APISecret: files.Cloudinary.APISecret,
					BaseURL:   files.Cloudinary.BaseURL,
					Folder:    files.Cloudinary.Folder,
					Timeout:   time.Duration(files.Cloudinary.Timeout),
				},
			},
		},
		Server: Server{
			HTTPAddress:       fc.Server.HTTPAddress,
			GRPCAddress:       fc.Server.GRPCAddress,
			RequestTimeout:    time.Duration(fc.Server.RequestTimeout),
			CountdownInterval: time.Duration(fc.Server.CountdownInterval),
			ShutdownTimeout:   time.Duration(fc.Server.ShutdownTimeout),
		},
		Workers: Workers{
			TokenCleanupInterval: time.Duration(fc.Workers.TokenCleanupInterval),
			HealthCheckInterval:  time.Duration(fc.Workers.HealthCheckInterval),
		},
	}
}

// Duration is a wrapper around time.Duration that supports JSON and YAML
// unmarshaling from strings like "1h", "30s" as well as from nanosecond
// numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if node.Tag == "!!int" {
		if err := node.Decode(&n); err != nil {
			return err
		}
		*d = Duration(time.Duration(n))
		return nil
	}

	tmp, err := time.ParseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}
