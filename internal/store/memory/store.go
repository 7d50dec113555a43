package memory

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/soulnest/soulnest/backend/internal/store"
)

// Store is an in-process store.DocumentStore. Documents are kept as encoded
// BSON so that reads go through the same codec path as the mongo store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New returns an empty Store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// Collection returns the named collection, creating it on first use.
func (s *Store) Collection(name string) store.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{name: name}
		s.collections[name] = c
	}
	return c
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close drops every collection.
func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	s.collections = make(map[string]*collection)
	s.mu.Unlock()
	return nil
}

type document struct {
	id  bson.ObjectID
	raw bson.Raw
}

type collection struct {
	name string
	mu   sync.RWMutex
	docs []document
}

func (c *collection) InsertOne(_ context.Context, doc any) (store.ID, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", c.name, err)
	}

	oid, raw, err := ensureObjectID(raw)
	if err != nil {
		return "", fmt.Errorf("assign %s id: %w", c.name, err)
	}

	c.mu.Lock()
	c.docs = append(c.docs, document{id: oid, raw: raw})
	c.mu.Unlock()

	return store.ID(oid.Hex()), nil
}

func (c *collection) Find(_ context.Context, filter store.Filter, out any, opts ...store.FindOption) error {
	sliceVal, err := slicePointer(out)
	if err != nil {
		return err
	}

	m, ok := compileFilter(filter)
	if !ok {
		sliceVal.Set(reflect.MakeSlice(sliceVal.Type(), 0, 0))
		return nil
	}

	c.mu.RLock()
	matched := make([]bson.Raw, 0, len(c.docs))
	for _, d := range c.docs {
		if m.match(d.raw) {
			matched = append(matched, d.raw)
		}
	}
	c.mu.RUnlock()

	findOpts := store.ApplyFindOptions(opts...)
	if findOpts.SortField != "" {
		field, desc := findOpts.SortField, findOpts.SortDescending
		slices.SortStableFunc(matched, func(a, b bson.Raw) int {
			res := compareValues(a.Lookup(field), b.Lookup(field))
			if desc {
				return -res
			}
			return res
		})
	}

	elemType := sliceVal.Type().Elem()
	result := reflect.MakeSlice(sliceVal.Type(), 0, len(matched))
	for _, raw := range matched {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return fmt.Errorf("decode %s document: %w", c.name, err)
		}
		result = reflect.Append(result, elem.Elem())
	}
	sliceVal.Set(result)
	return nil
}

func (c *collection) FindOne(_ context.Context, filter store.Filter, out any) error {
	m, ok := compileFilter(filter)
	if !ok {
		return store.ErrNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, d := range c.docs {
		if m.match(d.raw) {
			if err := bson.Unmarshal(d.raw, out); err != nil {
				return fmt.Errorf("decode %s document: %w", c.name, err)
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (c *collection) UpdateByID(_ context.Context, id store.ID, set store.Fields) (store.UpdateResult, error) {
	oid, ok := id.ObjectID()
	if !ok {
		return store.UpdateResult{}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(oid)
	if idx < 0 {
		return store.UpdateResult{}, nil
	}

	var fields bson.D
	if err := bson.Unmarshal(c.docs[idx].raw, &fields); err != nil {
		return store.UpdateResult{}, fmt.Errorf("decode %s document: %w", c.name, err)
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		replaced := false
		for i := range fields {
			if fields[i].Key == key {
				fields[i].Value = set[key]
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, bson.E{Key: key, Value: set[key]})
		}
	}

	updated, err := bson.Marshal(fields)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("encode %s document: %w", c.name, err)
	}

	result := store.UpdateResult{MatchedCount: 1}
	if !bytes.Equal(updated, c.docs[idx].raw) {
		c.docs[idx].raw = updated
		result.ModifiedCount = 1
	}
	return result, nil
}

func (c *collection) DeleteByID(_ context.Context, id store.ID) (store.DeleteResult, error) {
	oid, ok := id.ObjectID()
	if !ok {
		return store.DeleteResult{}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(oid)
	if idx < 0 {
		return store.DeleteResult{}, nil
	}
	c.docs = slices.Delete(c.docs, idx, idx+1)
	return store.DeleteResult{DeletedCount: 1}, nil
}

func (c *collection) indexOf(oid bson.ObjectID) int {
	for i, d := range c.docs {
		if d.id == oid {
			return i
		}
	}
	return -1
}

// ensureObjectID returns the document's _id, generating and prepending one
// when the encoded document has none.
func ensureObjectID(raw bson.Raw) (bson.ObjectID, bson.Raw, error) {
	if val, err := raw.LookupErr("_id"); err == nil {
		oid, ok := val.ObjectIDOK()
		if !ok {
			return bson.ObjectID{}, nil, fmt.Errorf("unsupported _id type %s", val.Type)
		}
		return oid, raw, nil
	}

	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return bson.ObjectID{}, nil, err
	}

	oid := bson.NewObjectID()
	withID, err := bson.Marshal(append(bson.D{{Key: "_id", Value: oid}}, fields...))
	if err != nil {
		return bson.ObjectID{}, nil, err
	}
	return oid, withID, nil
}

func slicePointer(out any) (reflect.Value, error) {
	val := reflect.ValueOf(out)
	if val.Kind() != reflect.Pointer || val.IsNil() || val.Elem().Kind() != reflect.Slice {
		return reflect.Value{}, fmt.Errorf("find target must be a non-nil pointer to a slice, got %T", out)
	}
	return val.Elem(), nil
}

type fieldMatch struct {
	key   string
	typ   bson.Type
	value []byte
}

type matcher []fieldMatch

// compileFilter encodes every filter value once. The second result is false
// when a value can never match, e.g. an _id that is not a valid ObjectID.
func compileFilter(filter store.Filter) (matcher, bool) {
	m := make(matcher, 0, len(filter))
	for key, want := range filter {
		typ, data, err := bson.MarshalValue(want)
		if err != nil {
			return nil, false
		}
		m = append(m, fieldMatch{key: key, typ: typ, value: data})
	}
	return m, true
}

func (m matcher) match(raw bson.Raw) bool {
	for _, f := range m {
		got, err := raw.LookupErr(f.key)
		if err != nil {
			return false
		}
		if got.Type != f.typ || !bytes.Equal(got.Value, f.value) {
			return false
		}
	}
	return true
}

// compareValues orders the value types this service sorts on. Missing or
// mismatched values compare equal so the stable sort keeps insertion order.
func compareValues(a, b bson.RawValue) int {
	if a.Type != b.Type {
		return 0
	}
	switch a.Type {
	case bson.TypeDateTime:
		return cmp.Compare(a.DateTime(), b.DateTime())
	case bson.TypeString:
		return strings.Compare(a.StringValue(), b.StringValue())
	case bson.TypeInt32:
		return cmp.Compare(a.Int32(), b.Int32())
	case bson.TypeInt64:
		return cmp.Compare(a.Int64(), b.Int64())
	case bson.TypeDouble:
		return cmp.Compare(a.Double(), b.Double())
	default:
		return 0
	}
}
