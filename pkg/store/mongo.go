package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kintree/kintree/pkg/tree"
)

// MongoStore persists trees in a MongoDB collection, one document per tree.
type MongoStore struct {
	client *mongo.Client
	trees  *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	// URI is the connection string (mongodb://host:port).
	URI string
	// Database defaults to "kintree".
	Database string
	// Collection defaults to "trees".
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "kintree"
	}
	if cfg.Collection == "" {
		cfg.Collection = "trees"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		trees:  client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put upserts a tree document, assigning a UUID when the tree has none.
func (s *MongoStore) Put(ctx context.Context, t *tree.Tree) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.trees.ReplaceOne(ctx, bson.M{"id": t.ID}, t, opts); err != nil {
		return "", fmt.Errorf("put tree %s: %w", t.ID, err)
	}
	return t.ID, nil
}

// Get retrieves a tree by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*tree.Tree, error) {
	var t tree.Tree
	err := s.trees.FindOne(ctx, bson.M{"id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tree %s: %w", id, err)
	}
	t.Init()
	return &t, nil
}

// Delete removes a tree by id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.trees.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete tree %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns summaries for all stored trees, sorted by id.
func (s *MongoStore) List(ctx context.Context) ([]TreeInfo, error) {
	opts := options.Find().SetSort(bson.M{"id": 1})
	cur, err := s.trees.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer cur.Close(ctx)

	var infos []TreeInfo
	for cur.Next(ctx) {
		var t tree.Tree
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode tree: %w", err)
		}
		infos = append(infos, TreeInfo{ID: t.ID, Name: t.Name, Persons: len(t.Persons)})
	}
	return infos, cur.Err()
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ TreeStore = (*MongoStore)(nil)
