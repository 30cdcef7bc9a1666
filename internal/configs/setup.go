package configs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB dials Mongo and pings it before returning the client.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to mongo")
		return nil, err
	}

	//ping the database
	if err := client.Ping(ctx, nil); err != nil {
		log.Error().Err(err).Msg("Error pinging mongo")
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Msg("Connected to MongoDB!")
	return client, nil
}

// getting database collections
func GetCollection(client *mongo.Client, database, collectionName string) *mongo.Collection {
	return client.Database(database).Collection(collectionName)
}

// OpenDatabase picks the storage driver named in the config.
func OpenDatabase(ctx context.Context, cfg Config) (Database, func(context.Context) error, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return NewMemoryDB(), func(context.Context) error { return nil }, nil
	}

	client, err := ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	db := NewMongoDB(client, cfg.MongoDatabase)
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return db, client.Disconnect, nil
}
