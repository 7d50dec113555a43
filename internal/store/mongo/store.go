package mongo

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/soulnest/soulnest/backend/internal/store"
)

// Config describes how to reach the database.
type Config struct {
	URL      string
	Database string
}

// Store implements store.DocumentStore on top of a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", cfg.Database))
	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// EnsureIndexes creates the lookup indexes used by the list queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		store.ConversationsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		store.MessagesCollection: {
			{Keys: bson.D{{Key: "conversation_id", Value: 1}}},
		},
		store.MoodsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		store.JournalsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		created, err := s.db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		s.logger.Debug("indexes ensured", zap.String("collection", name), zap.Strings("indexes", created))
	}
	return nil
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) store.Collection {
	return &collection{name: name, coll: s.db.Collection(name)}
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type collection struct {
	name string
	coll *mongo.Collection
}

func (c *collection) InsertOne(ctx context.Context, doc any) (store.ID, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", c.name, err)
	}

	switch id := res.InsertedID.(type) {
	case bson.ObjectID:
		return store.ID(id.Hex()), nil
	case string:
		return store.ID(id), nil
	default:
		return "", fmt.Errorf("insert into %s: unexpected id type %T", c.name, res.InsertedID)
	}
}

func (c *collection) Find(ctx context.Context, filter store.Filter, out any, opts ...store.FindOption) error {
	query, ok := toQuery(filter)
	if !ok {
		return setEmptySlice(out)
	}

	findOpts := options.Find()
	if o := store.ApplyFindOptions(opts...); o.SortField != "" {
		direction := 1
		if o.SortDescending {
			direction = -1
		}
		findOpts.SetSort(bson.D{{Key: o.SortField, Value: direction}})
	}

	cursor, err := c.coll.Find(ctx, query, findOpts)
	if err != nil {
		return fmt.Errorf("find in %s: %w", c.name, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s documents: %w", c.name, err)
	}
	return nil
}

func (c *collection) FindOne(ctx context.Context, filter store.Filter, out any) error {
	query, ok := toQuery(filter)
	if !ok {
		return store.ErrNotFound
	}

	err := c.coll.FindOne(ctx, query).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one in %s: %w", c.name, err)
	}
	return nil
}

func (c *collection) UpdateByID(ctx context.Context, id store.ID, set store.Fields) (store.UpdateResult, error) {
	oid, ok := id.ObjectID()
	if !ok {
		return store.UpdateResult{}, nil
	}

	update := bson.D{{Key: "$set", Value: bson.M(set)}}
	res, err := c.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update in %s: %w", c.name, err)
	}
	return store.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (c *collection) DeleteByID(ctx context.Context, id store.ID) (store.DeleteResult, error) {
	oid, ok := id.ObjectID()
	if !ok {
		return store.DeleteResult{}, nil
	}

	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete in %s: %w", c.name, err)
	}
	return store.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// toQuery converts an equality filter into a bson document. It reports false
// when an ID value is not a valid ObjectID, which can never match.
func toQuery(filter store.Filter) (bson.D, bool) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	query := make(bson.D, 0, len(keys))
	for _, key := range keys {
		value := filter[key]
		if id, ok := value.(store.ID); ok {
			oid, valid := id.ObjectID()
			if !valid {
				return nil, false
			}
			value = oid
		}
		query = append(query, bson.E{Key: key, Value: value})
	}
	return query, true
}

// setEmptySlice resets *out to an empty, non-nil slice.
func setEmptySlice(out any) error {
	val := reflect.ValueOf(out)
	if val.Kind() != reflect.Pointer || val.IsNil() || val.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("find target must be a non-nil pointer to a slice, got %T", out)
	}
	val.Elem().Set(reflect.MakeSlice(val.Elem().Type(), 0, 0))
	return nil
}
