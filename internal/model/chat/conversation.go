package chat

import (
	"time"

	"github.com/soulnest/soulnest/backend/internal/store"
)

// Conversation groups the messages of one chat session for a user.
type Conversation struct {
	ID        store.ID  `bson:"_id,omitempty" json:"_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
