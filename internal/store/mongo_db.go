package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
)

const (
	usersCollection         = "users"
	capsulesCollection      = "capsules"
	refreshTokensCollection = "refresh_tokens"
)

// MongoDB holds the client and the selected database of the mongo driver.
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewConnectMongo connects to cfg.URI, pings the primary and makes sure
// the indexes exist.
func NewConnectMongo(ctx context.Context, cfg config.Mongo, log *logger.Logger) (*MongoDB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error connecting to mongo")
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	if err = client.Ping(connectCtx, readpref.Primary()); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error pinging mongo")
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	db := &MongoDB{client: client, database: client.Database(cfg.Database)}
	if err = EnsureMongoIndexes(connectCtx, db.database); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error creating mongo indexes")
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info().Str("func", "NewConnectMongo").Str("database", cfg.Database).Msg("connected to mongo successfully")
	return db, nil
}

// Database returns the selected database.
func (m *MongoDB) Database() *mongo.Database {
	return m.database
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// EnsureMongoIndexes creates the unique login index, the capsule listing
// indexes and the TTL index that lets the server expire refresh tokens.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "login", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		capsulesCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		refreshTokensCollection: {
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}

	for collection, idx := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("%w: creating %s indexes: %w", ErrExecutingMongoQuery, collection, err)
		}
	}
	return nil
}
