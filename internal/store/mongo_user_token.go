package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/models"
)

type mongoUserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewMongoUserRepository(db *mongo.Database, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating mongo user repository")
	return &mongoUserRepository{
		collection: db.Collection(usersCollection),
		logger:     logger,
	}
}

func (r *mongoUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		log.Err(err).Str("func", "*mongoUserRepository.CreateUser").Msg("error inserting user")
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrLoginAlreadyExists
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	return user, nil
}

func (r *mongoUserRepository) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	return r.findOne(ctx, "*mongoUserRepository.FindUserByLogin", bson.M{"login": login})
}

func (r *mongoUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return r.findOne(ctx, "*mongoUserRepository.FindUserByID", bson.M{"_id": userID})
}

func (r *mongoUserRepository) findOne(ctx context.Context, fn string, filter bson.M) (models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", fn).Msg("error finding user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

type mongoTokenRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewMongoTokenRepository(db *mongo.Database, logger *logger.Logger) TokenRepository {
	logger.Debug().Msg("creating mongo token repository")
	return &mongoTokenRepository{
		collection: db.Collection(refreshTokensCollection),
		logger:     logger,
	}
}

func (r *mongoTokenRepository) SaveRefreshToken(ctx context.Context, token models.RefreshToken) error {
	if _, err := r.collection.InsertOne(ctx, token); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoTokenRepository.SaveRefreshToken").Msg("error saving refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}
	return nil
}

func (r *mongoTokenRepository) GetRefreshToken(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.collection.FindOne(ctx, bson.M{"_id": tokenHash}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RefreshToken{}, ErrRefreshTokenNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoTokenRepository.GetRefreshToken").Msg("error getting refresh token")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}

	token.ExpiresAt = token.ExpiresAt.UTC()
	token.CreatedAt = token.CreatedAt.UTC()
	return token, nil
}

func (r *mongoTokenRepository) DeleteRefreshToken(ctx context.Context, tokenHash string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": tokenHash})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoTokenRepository.DeleteRefreshToken").Msg("error deleting refresh token")
		return false, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteExpiredRefreshTokens complements the TTL index, which the server
// applies only about once a minute.
func (r *mongoTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now.UTC()}})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*mongoTokenRepository.DeleteExpiredRefreshTokens").Msg("error deleting expired refresh tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingMongoQuery, err)
	}
	return res.DeletedCount, nil
}
