package journal

import (
	"time"

	"github.com/soulnest/soulnest/backend/internal/store"
)

// Journal is a titled journal entry owned by a user.
type Journal struct {
	ID        store.ID  `bson:"_id,omitempty" json:"_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
