package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ID is the opaque identifier of a stored document. Callers only ever see
// its string form; the native ObjectID never leaves this package and the
// store implementations.
type ID string

// NewID returns a freshly generated identifier.
func NewID() ID {
	return ID(bson.NewObjectID().Hex())
}

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty. It also lets bson skip
// empty ids tagged omitempty so that the store can generate one.
func (id ID) IsZero() bool {
	return id == ""
}

// ObjectID converts the identifier into the native document id. The second
// result is false when the id is not a valid ObjectID hex string.
func (id ID) ObjectID() (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(string(id))
	if err != nil {
		return bson.ObjectID{}, false
	}
	return oid, true
}

// MarshalBSONValue writes the id as a native ObjectID.
func (id ID) MarshalBSONValue() (byte, []byte, error) {
	oid, ok := id.ObjectID()
	if !ok {
		return 0, nil, fmt.Errorf("invalid document id %q", string(id))
	}
	return byte(bson.TypeObjectID), oid[:], nil
}

// UnmarshalBSONValue reads an ObjectID (or a plain string id) back into ID.
func (id *ID) UnmarshalBSONValue(typ byte, data []byte) error {
	raw := bson.RawValue{Type: bson.Type(typ), Value: data}
	switch raw.Type {
	case bson.TypeObjectID:
		oid, ok := raw.ObjectIDOK()
		if !ok {
			return fmt.Errorf("malformed objectid value")
		}
		*id = ID(oid.Hex())
	case bson.TypeString:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("malformed string id value")
		}
		*id = ID(s)
	case bson.TypeNull, bson.TypeUndefined:
		*id = ""
	default:
		return fmt.Errorf("cannot decode bson type %s into document id", raw.Type)
	}
	return nil
}
