package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/migrations"
)

const maxRetryAttempts = 3

var retryDelays = [maxRetryAttempts]time.Duration{
	100 * time.Millisecond,
	300 * time.Millisecond,
	time.Second,
}

// DB wraps a *sql.DB together with the dialect specifics shared by all
// SQL repositories: the placeholder format and the driver error classifier.
type DB struct {
	*sql.DB

	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect string, classificator ErrorClassificator, log *logger.Logger) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == migrations.DialectPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:                 conn,
		dialect:            dialect,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classificator,
		logger:             log,
	}
}

// Migrate applies the embedded migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// Ping checks connectivity, retrying transient driver errors.
func (db *DB) Ping(ctx context.Context) error {
	return db.withRetry(ctx, func() error {
		return db.PingContext(ctx)
	})
}

// withRetry runs op until it succeeds, returns a non-retryable error, or
// the attempts are exhausted.
func (db *DB) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < maxRetryAttempts; attempt++ {
		err = op()
		if err == nil || db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		db.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("retryable database error")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelays[attempt]):
		}
	}
	return err
}
