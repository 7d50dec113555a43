package store

import (
	"context"
	"errors"
)

// Collection names shared by the services.
const (
	ConversationsCollection = "conversations"
	MessagesCollection      = "messages"
	MoodsCollection         = "moods"
	JournalsCollection      = "journals"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("document not found")

// Filter is an equality match on top-level document fields. The "_id" key
// expects an ID value.
type Filter map[string]any

// Fields lists the top-level fields written by a partial update.
type Fields map[string]any

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64
}

// Collection is a named set of schema-less documents.
//
// Documents passed to InsertOne and decoded by Find/FindOne are plain structs
// carrying bson tags; an ID field tagged `bson:"_id,omitempty"` receives the
// generated identifier on reads.
type Collection interface {
	InsertOne(ctx context.Context, doc any) (ID, error)
	// Find decodes every matching document into out, which must be a pointer
	// to a slice.
	Find(ctx context.Context, filter Filter, out any, opts ...FindOption) error
	FindOne(ctx context.Context, filter Filter, out any) error
	UpdateByID(ctx context.Context, id ID, set Fields) (UpdateResult, error)
	DeleteByID(ctx context.Context, id ID) (DeleteResult, error)
}

// DocumentStore hands out collections and owns the underlying connection.
type DocumentStore interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// FindOptions collects the knobs accepted by Collection.Find.
type FindOptions struct {
	SortField      string
	SortDescending bool
}

// FindOption mutates FindOptions.
type FindOption func(*FindOptions)

// Sort orders results by a single top-level field.
func Sort(field string, descending bool) FindOption {
	return func(o *FindOptions) {
		o.SortField = field
		o.SortDescending = descending
	}
}

// ApplyFindOptions folds opts into a FindOptions value.
func ApplyFindOptions(opts ...FindOption) FindOptions {
	var o FindOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
