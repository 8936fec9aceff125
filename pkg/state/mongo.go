package state

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "tickergrid"
	DefaultMongoCollection = "state"
)

// MongoConfig configures a MongoBackend.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoBackend stores one document per key, with the key as _id.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored shape of a State.
type mongoDoc struct {
	Key       string    `bson:"_id"`
	State     State     `bson:",inline"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoBackend connects to mongo and verifies the connection.
func NewMongoBackend(ctx context.Context, cfg MongoConfig) (*MongoBackend, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, backendErr(err, mongoTransient, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, backendErr(err, mongoTransient, "ping mongo")
	}
	return &MongoBackend{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Name implements Backend.
func (b *MongoBackend) Name() string { return "mongo" }

// Load implements Backend.
func (b *MongoBackend) Load(ctx context.Context, key string) (*State, error) {
	var doc mongoDoc
	err := b.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &State{}, nil
	}
	if err != nil {
		return nil, backendErr(err, mongoTransient, "mongo find %s", key)
	}
	return &doc.State, nil
}

// Save implements Backend. The document is upserted; transient network
// failures are retried.
func (b *MongoBackend) Save(ctx context.Context, key string, s *State) error {
	if s == nil {
		s = &State{}
	}
	doc := mongoDoc{Key: key, State: *s, UpdatedAt: time.Now().UTC()}

	err := retryTransient(ctx, mongoTransient, func() error {
		_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
		return err
	})
	if err != nil {
		return backendErr(err, mongoTransient, "mongo replace %s", key)
	}
	return nil
}

// Delete implements Backend.
func (b *MongoBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return backendErr(err, mongoTransient, "mongo delete %s", key)
	}
	return nil
}

// Close implements Backend.
func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

var _ Backend = (*MongoBackend)(nil)

func mongoTransient(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
