package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/models"
)

// mongoCapsuleRepository keeps each capsule as one document with the media
// list embedded as an array.
type mongoCapsuleRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewMongoCapsuleRepository(db *mongo.Database, logger *logger.Logger) CapsuleRepository {
	logger.Debug().Msg("creating mongo capsule repository")
	return &mongoCapsuleRepository{
		collection: db.Collection(capsulesCollection),
		logger:     logger,
	}
}

func (r *mongoCapsuleRepository) CreateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	if capsule.Version == 0 {
		capsule.Version = 1
	}
	if capsule.Media == nil {
		capsule.Media = make([]models.MediaItem, 0)
	}

	if _, err := r.collection.InsertOne(ctx, capsule); err != nil {
		log.Err(err).Str("func", "*mongoCapsuleRepository.CreateCapsule").Str("capsule_id", capsule.ID).Msg("error inserting capsule")
		if mongo.IsDuplicateKeyError(err) {
			return models.Capsule{}, ErrCapsuleAlreadyExists
		}
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	return capsule, nil
}

func (r *mongoCapsuleRepository) GetCapsule(ctx context.Context, capsuleID string) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	var capsule models.Capsule
	err := r.collection.FindOne(ctx, bson.M{"_id": capsuleID}).Decode(&capsule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Capsule{}, ErrCapsuleNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*mongoCapsuleRepository.GetCapsule").Str("capsule_id", capsuleID).Msg("error getting capsule")
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	return normalizeCapsuleDocument(capsule), nil
}

// UpdateCapsule writes the mutable fields only; owner_id and created_at
// stay as stored.
func (r *mongoCapsuleRepository) UpdateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error) {
	log := logger.FromContext(ctx)

	if capsule.Media == nil {
		capsule.Media = make([]models.MediaItem, 0)
	}

	update := bson.M{
		"$set": bson.M{
			"title":          capsule.Title,
			"description":    capsule.Description,
			"unsealing_date": capsule.UnsealingDate,
			"is_public":      capsule.IsPublic,
			"status":         capsule.Status,
			"media":          capsule.Media,
			"updated_at":     capsule.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": capsule.ID, "version": capsule.Version}, update)
	if err != nil {
		log.Err(err).Str("func", "*mongoCapsuleRepository.UpdateCapsule").Str("capsule_id", capsule.ID).Msg("error updating capsule")
		return models.Capsule{}, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	if res.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": capsule.ID})
		if err != nil {
			return models.Capsule{}, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
		}
		if n == 0 {
			return models.Capsule{}, ErrCapsuleNotFound
		}
		return models.Capsule{}, ErrVersionConflict
	}

	capsule.Version++
	return capsule, nil
}

func (r *mongoCapsuleRepository) DeleteCapsule(ctx context.Context, capsuleID string) error {
	log := logger.FromContext(ctx)

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": capsuleID})
	if err != nil {
		log.Err(err).Str("func", "*mongoCapsuleRepository.DeleteCapsule").Str("capsule_id", capsuleID).Msg("error deleting capsule")
		return fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}
	if res.DeletedCount == 0 {
		return ErrCapsuleNotFound
	}

	return nil
}

func (r *mongoCapsuleRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Capsule, error) {
	return r.find(ctx, "*mongoCapsuleRepository.ListByOwner", bson.M{"owner_id": ownerID}, newestFirst())
}

func (r *mongoCapsuleRepository) ListPublic(ctx context.Context, filter models.CapsuleFilter) ([]models.Capsule, int64, error) {
	log := logger.FromContext(ctx)

	query := publicCapsulesFilter(filter.Search)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		log.Err(err).Str("func", "*mongoCapsuleRepository.ListPublic").Msg("error counting public capsules")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	opts := newestFirst()
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	capsules, err := r.find(ctx, "*mongoCapsuleRepository.ListPublic", query, opts)
	if err != nil {
		return nil, 0, err
	}

	return capsules, total, nil
}

func (r *mongoCapsuleRepository) find(ctx context.Context, fn string, filter bson.M, opts *options.FindOptions) ([]models.Capsule, error) {
	log := logger.FromContext(ctx)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error finding capsules")
		return nil, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	capsules := make([]models.Capsule, 0)
	if err = cursor.All(ctx, &capsules); err != nil {
		log.Err(err).Str("func", fn).Msg("error decoding capsules")
		return nil, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	for i := range capsules {
		capsules[i] = normalizeCapsuleDocument(capsules[i])
	}
	return capsules, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
}

func publicCapsulesFilter(search string) bson.M {
	filter := bson.M{"is_public": true}

	search = strings.TrimSpace(search)
	if search == "" {
		return filter
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	filter["$or"] = bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}
	return filter
}

// normalizeCapsuleDocument restores the in-memory conventions the SQL
// stores also follow: UTC timestamps and a non-nil media list.
func normalizeCapsuleDocument(c models.Capsule) models.Capsule {
	if c.Media == nil {
		c.Media = make([]models.MediaItem, 0)
	}
	c.UnsealingDate = c.UnsealingDate.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c
}
