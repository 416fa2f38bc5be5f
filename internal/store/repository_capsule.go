package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/models"
)

const capsulesTable = "capsules"

var capsuleColumns = []string{
	"id",
	"owner_id",
	"title",
	"description",
	"unsealing_date",
	"is_public",
	"status",
	"media",
	"version",
	"created_at",
	"updated_at",
}

// capsuleRepository is the SQL implementation of [CapsuleRepository]
// shared by the postgres and sqlite drivers. The media list lives in a
// single JSON column so every capsule write is one statement.
type capsuleRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewCapsuleRepository constructs a [CapsuleRepository] backed by db.
func NewCapsuleRepository(db *DB, logger *logger.Logger) CapsuleRepository {
	logger.Debug().Msg("creating capsule repository")
	return &capsuleRepository{
		db:     db,
		logger: logger,
	}
}

func (r *capsuleRepository) CreateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	media, err := encodeMedia(capsule.Media)
	if err != nil {
		log.Err(err).Str("func", "*capsuleRepository.CreateCapsule").Msg("error encoding media")
		return models.Capsule{}, err
	}

	if capsule.Version == 0 {
		capsule.Version = 1
	}

	query, args, err := r.db.builder.
		Insert(capsulesTable).
		Columns(capsuleColumns...).
		Values(
			capsule.ID,
			capsule.OwnerID,
			capsule.Title,
			capsule.Description,
			capsule.UnsealingDate.UTC(),
			capsule.IsPublic,
			string(capsule.Status),
			media,
			capsule.Version,
			capsule.CreatedAt.UTC(),
			capsule.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*capsuleRepository.CreateCapsule").Str("capsule_id", capsule.ID).Msg("error inserting capsule")
		if r.db.errorClassificator.IsUniqueViolation(err) {
			return models.Capsule{}, ErrCapsuleAlreadyExists
		}
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if capsule.Media == nil {
		capsule.Media = make([]models.MediaItem, 0)
	}
	return capsule, nil
}

func (r *capsuleRepository) GetCapsule(ctx context.Context, capsuleID string) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(capsuleColumns...).
		From(capsulesTable).
		Where(sq.Eq{"id": capsuleID}).
		ToSql()
	if err != nil {
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var capsule models.Capsule
	err = r.db.withRetry(ctx, func() error {
		var scanErr error
		capsule, scanErr = scanCapsule(r.db.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Capsule{}, ErrCapsuleNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*capsuleRepository.GetCapsule").Str("capsule_id", capsuleID).Msg("error getting capsule")
		return models.Capsule{}, err
	}

	return capsule, nil
}

// UpdateCapsule writes every mutable field when the stored version still
// equals capsule.Version.
func (r *capsuleRepository) UpdateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	media, err := encodeMedia(capsule.Media)
	if err != nil {
		log.Err(err).Str("func", "*capsuleRepository.UpdateCapsule").Msg("error encoding media")
		return models.Capsule{}, err
	}

	query, args, err := r.db.builder.
		Update(capsulesTable).
		Set("title", capsule.Title).
		Set("description", capsule.Description).
		Set("unsealing_date", capsule.UnsealingDate.UTC()).
		Set("is_public", capsule.IsPublic).
		Set("status", string(capsule.Status)).
		Set("media", media).
		Set("updated_at", capsule.UpdatedAt.UTC()).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": capsule.ID, "version": capsule.Version}).
		ToSql()
	if err != nil {
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*capsuleRepository.UpdateCapsule").Str("capsule_id", capsule.ID).Msg("error updating capsule")
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		exists, err := r.exists(ctx, capsule.ID)
		if err != nil {
			return models.Capsule{}, err
		}
		if !exists {
			return models.Capsule{}, ErrCapsuleNotFound
		}
		log.Debug().Str("func", "*capsuleRepository.UpdateCapsule").
			Str("capsule_id", capsule.ID).
			Int64("version", capsule.Version).
			Msg("stale capsule version")
		return models.Capsule{}, ErrVersionConflict
	}

	capsule.Version++
	return capsule, nil
}

func (r *capsuleRepository) DeleteCapsule(ctx context.Context, capsuleID string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(capsulesTable).
		Where(sq.Eq{"id": capsuleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*capsuleRepository.DeleteCapsule").Str("capsule_id", capsuleID).Msg("error deleting capsule")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrCapsuleNotFound
	}

	return nil
}

func (r *capsuleRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Capsule, error) {
	query, args, err := r.db.builder.
		Select(capsuleColumns...).
		From(capsulesTable).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryCapsules(ctx, "*capsuleRepository.ListByOwner", query, args)
}

func (r *capsuleRepository) ListPublic(ctx context.Context, filter models.CapsuleFilter) ([]models.Capsule, int64, error) {
	log := logger.FromContext(ctx)

	where := publicCapsulesWhere(filter.Search)

	countQuery, countArgs, err := r.db.builder.
		Select("COUNT(*)").
		From(capsulesTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		log.Err(err).Str("func", "*capsuleRepository.ListPublic").Msg("error counting public capsules")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	builder := r.db.builder.
		Select(capsuleColumns...).
		From(capsulesTable).
		Where(where).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	capsules, err := r.queryCapsules(ctx, "*capsuleRepository.ListPublic", query, args)
	if err != nil {
		return nil, 0, err
	}

	return capsules, total, nil
}

func (r *capsuleRepository) exists(ctx context.Context, capsuleID string) (bool, error) {
	query, args, err := r.db.builder.
		Select("1").
		From(capsulesTable).
		Where(sq.Eq{"id": capsuleID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return true, nil
}

func (r *capsuleRepository) queryCapsules(ctx context.Context, fn, query string, args []any) ([]models.Capsule, error) {
	log := logger.FromContext(ctx)

	var capsules []models.Capsule
	err := r.db.withRetry(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		capsules = make([]models.Capsule, 0)
		for rows.Next() {
			capsule, err := scanCapsule(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			capsules = append(capsules, capsule)
		}
		return rows.Err()
	})
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error listing capsules")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return capsules, nil
}

// publicCapsulesWhere matches public capsules whose title or description
// contains search, ignoring case.
func publicCapsulesWhere(search string) sq.Sqlizer {
	public := sq.Eq{"is_public": true}

	search = strings.TrimSpace(search)
	if search == "" {
		return public
	}

	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	return sq.And{
		public,
		sq.Or{
			sq.Expr(`LOWER(title) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(description) LIKE ? ESCAPE '\'`, pattern),
		},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCapsule(row rowScanner) (models.Capsule, error) {
	var (
		capsule models.Capsule
		status  string
		media   []byte
	)

	err := row.Scan(
		&capsule.ID,
		&capsule.OwnerID,
		&capsule.Title,
		&capsule.Description,
		&capsule.UnsealingDate,
		&capsule.IsPublic,
		&status,
		&media,
		&capsule.Version,
		&capsule.CreatedAt,
		&capsule.UpdatedAt,
	)
	if err != nil {
		return models.Capsule{}, err
	}

	capsule.Status = models.CapsuleStatus(status)
	if capsule.Media, err = decodeMedia(media); err != nil {
		return models.Capsule{}, err
	}

	capsule.UnsealingDate = capsule.UnsealingDate.UTC()
	capsule.CreatedAt = capsule.CreatedAt.UTC()
	capsule.UpdatedAt = capsule.UpdatedAt.UTC()

	return capsule, nil
}
