package chat

import (
	"time"

	"github.com/soulnest/soulnest/backend/internal/store"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is a single turn of a conversation. Messages are written once and
// never edited.
type Message struct {
	ID             store.ID  `bson:"_id,omitempty" json:"_id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	Sender         Sender    `bson:"sender" json:"sender"`
	Text           string    `bson:"text" json:"text"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}
