// Package mongo stores autosaved graphs in a MongoDB collection.
//
// Each key is one document:
//
//	{ "_id": "data-lineage-flow", "value": <binary>, "updated_at": <date> }
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/lineageflow/pkg/storage"
)

// Defaults applied when Config fields are empty.
const (
	DefaultDatabase   = "lineageflow"
	DefaultCollection = "graphs"
)

// Config holds connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Store implements storage.Store on a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

type document struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewStore connects to MongoDB and pings the primary.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout).SetTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := New(client, cfg.Database, cfg.Collection)
	s.owned = true
	return s, nil
}

// New wraps an existing client. Close does not disconnect a client passed
// in this way.
func New(client *mongo.Client, database, collection string) *Store {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{client: client, coll: client.Database(database).Collection(collection)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc document
	err := storage.RetryWithBackoff(ctx, func() error {
		return classify(s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc))
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	doc := document{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := storage.RetryWithBackoff(ctx, func() error {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// classify marks network errors and timeouts as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return storage.Retryable(err)
	}
	return err
}

var _ storage.Store = (*Store)(nil)
