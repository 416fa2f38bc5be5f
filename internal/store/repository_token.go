package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/models"
)

const refreshTokensTable = "refresh_tokens"

// tokenRepository is the SQL implementation of [TokenRepository].
type tokenRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	logger.Debug().Msg("creating token repository")
	return &tokenRepository{
		db:     db,
		logger: logger,
	}
}

func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token models.RefreshToken) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(refreshTokensTable).
		Columns("token_hash", "user_id", "expires_at", "created_at").
		Values(token.TokenHash, token.UserID, token.ExpiresAt.UTC(), token.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*tokenRepository.SaveRefreshToken").Str("user_id", token.UserID).Msg("error saving refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *tokenRepository) GetRefreshToken(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("token_hash", "user_id", "expires_at", "created_at").
		From(refreshTokensTable).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var token models.RefreshToken
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, args...).
			Scan(&token.TokenHash, &token.UserID, &token.ExpiresAt, &token.CreatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.RefreshToken{}, ErrRefreshTokenNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.GetRefreshToken").Msg("error getting refresh token")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	token.ExpiresAt = token.ExpiresAt.UTC()
	token.CreatedAt = token.CreatedAt.UTC()
	return token, nil
}

func (r *tokenRepository) DeleteRefreshToken(ctx context.Context, tokenHash string) (bool, error) {
	removed, err := r.delete(ctx, "*tokenRepository.DeleteRefreshToken", sq.Eq{"token_hash": tokenHash})
	return removed > 0, err
}

func (r *tokenRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.delete(ctx, "*tokenRepository.DeleteExpiredRefreshTokens", sq.LtOrEq{"expires_at": now.UTC()})
}

func (r *tokenRepository) delete(ctx context.Context, fn string, where sq.Sqlizer) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(refreshTokensTable).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error deleting refresh tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected, nil
}
