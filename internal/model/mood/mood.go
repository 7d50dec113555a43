package mood

import (
	"time"

	"github.com/soulnest/soulnest/backend/internal/store"
)

// Mood is a free-text mood check-in. Note is nil when the user left none.
type Mood struct {
	ID        store.ID  `bson:"_id,omitempty" json:"_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Mood      string    `bson:"mood" json:"mood"`
	Note      *string   `bson:"note" json:"note"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
