package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

const (
	flagAddress                = "address"
	flagGRPCAddress            = "grpc-address"
	flagConfig                 = "config"
	flagEnvFile                = "env-file"
	flagStorageDriver          = "storage-driver"
	flagDatabaseDSN            = "database-dsn"
	flagSkipMigrations         = "skip-migrations"
	flagMongoURI               = "mongo-uri"
	flagMongoDatabase          = "mongo-database"
	flagFilesDriver            = "files-driver"
	flagFilesDir               = "files-dir"
	flagPublicURL              = "public-url"
	flagTokenSignKey           = "token-sign-key"
	flagTokenIssuer            = "token-issuer"
	flagAccessTokenDuration    = "access-token-duration"
	flagRefreshTokenDuration   = "refresh-token-duration"
	flagRequestTimeout         = "request-timeout"
	flagLogLevel               = "log-level"
	flagAllowPastUnsealingDate = "allow-past-unsealing-date"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// RegisterFlags adds every configuration flag to fs. The cobra commands
// call it on their persistent flag set.
//
// Flags:
//
//	-a/--address             HTTP server address in format [host]:[port]
//	--grpc-address           gRPC server address in format [host]:[port]
//	-c/--config              JSON or YAML config file path
//	--env-file               .env file path
//	--storage-driver         memory | postgres | sqlite | mongo
//	-d/--database-dsn        database DSN
//	--skip-migrations        do not run migrations at startup
//	--mongo-uri              MongoDB connection URI
//	--mongo-database         MongoDB database name
//	--files-driver           local | s3 | cloudinary
//	-f/--files-dir           local media directory
//	--public-url             external base URL for local media
//	--token-sign-key         JWT signing key
//	--token-issuer           JWT issuer
//	--access-token-duration  e.g. 15m
//	--refresh-token-duration e.g. 720h
//	--request-timeout        e.g. 30s
//	--log-level              zerolog level
//	--allow-past-unsealing-date
func RegisterFlags(fs *pflag.FlagSet) {
	fs.VarP(&NetAddress{}, flagAddress, "a", "Net address host:port")
	fs.Var(&NetAddress{}, flagGRPCAddress, "Net grpc server address host:port")
	fs.StringP(flagConfig, "c", "", "JSON or YAML config file path")
	fs.String(flagEnvFile, "", ".env file path")
	fs.String(flagStorageDriver, "", "Storage driver: memory, postgres, sqlite, mongo")
	fs.StringP(flagDatabaseDSN, "d", "", "Database DSN")
	fs.Bool(flagSkipMigrations, false, "Skip database migrations")
	fs.String(flagMongoURI, "", "MongoDB URI")
	fs.String(flagMongoDatabase, "", "MongoDB database name")
	fs.String(flagFilesDriver, "", "Media host driver: local, s3, cloudinary")
	fs.StringP(flagFilesDir, "f", "", "Local media directory")
	fs.String(flagPublicURL, "", "Public base URL of local media")
	fs.String(flagTokenSignKey, "", "Token signing key")
	fs.String(flagTokenIssuer, "", "Token issuer")
	fs.Duration(flagAccessTokenDuration, 0, "Access token duration (e.g., 15m)")
	fs.Duration(flagRefreshTokenDuration, 0, "Refresh token duration (e.g., 720h)")
	fs.Duration(flagRequestTimeout, 0, "Request timeout (e.g., 30s, 1m)")
	fs.String(flagLogLevel, "", "Log level")
	fs.Bool(flagAllowPastUnsealingDate, false, "Allow unsealing dates in the past")
}

// parseFlags reads the already parsed flag set into a partial config.
// Flags that were not registered are left empty.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	r := flagReader{fs: fs}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:           r.str(flagTokenSignKey),
			TokenIssuer:            r.str(flagTokenIssuer),
			AccessTokenDuration:    r.duration(flagAccessTokenDuration),
			RefreshTokenDuration:   r.duration(flagRefreshTokenDuration),
			LogLevel:               r.str(flagLogLevel),
			AllowPastUnsealingDate: r.boolean(flagAllowPastUnsealingDate),
		},
		Storage: Storage{
			Driver: r.str(flagStorageDriver),
			DB: DB{
				DSN:            r.str(flagDatabaseDSN),
				SkipMigrations: r.boolean(flagSkipMigrations),
			},
			Mongo: Mongo{
				URI:      r.str(flagMongoURI),
				Database: r.str(flagMongoDatabase),
			},
			Files: Files{
				Driver:    r.str(flagFilesDriver),
				Dir:       r.str(flagFilesDir),
				PublicURL: r.str(flagPublicURL),
			},
		},
		Server: Server{
			HTTPAddress:    r.value(flagAddress),
			GRPCAddress:    r.value(flagGRPCAddress),
			RequestTimeout: r.duration(flagRequestTimeout),
		},
		ConfigFilePath: r.str(flagConfig),
		EnvFilePath:    r.str(flagEnvFile),
	}

	if r.err != nil {
		return nil, fmt.Errorf("error reading flags: %w", r.err)
	}
	return cfg, nil
}

type flagReader struct {
	fs  *pflag.FlagSet
	err error
}

func (r *flagReader) str(name string) string {
	if r.fs.Lookup(name) == nil {
		return ""
	}
	v, err := r.fs.GetString(name)
	r.err = errors.Join(r.err, err)
	return v
}

func (r *flagReader) boolean(name string) bool {
	if r.fs.Lookup(name) == nil {
		return false
	}
	v, err := r.fs.GetBool(name)
	r.err = errors.Join(r.err, err)
	return v
}

func (r *flagReader) duration(name string) time.Duration {
	if r.fs.Lookup(name) == nil {
		return 0
	}
	v, err := r.fs.GetDuration(name)
	r.err = errors.Join(r.err, err)
	return v
}

func (r *flagReader) value(name string) string {
	f := r.fs.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// String returns a canonical host:port string for a NetAddress, or an
// empty string when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// The host may be empty (all interfaces), "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "address"
}
