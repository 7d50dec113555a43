package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/soulnest/soulnest/backend/internal/model/chat"
	"github.com/soulnest/soulnest/backend/internal/model/user"
	"github.com/soulnest/soulnest/backend/internal/store"
)

// SendRequest is a user message posted to a conversation. An empty
// ConversationID starts a new conversation.
type SendRequest struct {
	Message        string
	ConversationID string
	UserID         string
}

// SendResult carries the assistant reply and the conversation it belongs to.
type SendResult struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
}

// Service persists conversations and their messages.
type Service struct {
	conversations store.Collection
	messages      store.Collection
	replies       ReplyGenerator
	now           func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp documents.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the chat service to its collections. A nil replies falls
// back to CannedReply.
func NewService(db store.DocumentStore, replies ReplyGenerator, opts ...Option) *Service {
	if replies == nil {
		replies = CannedReply{}
	}

	s := &Service{
		conversations: db.Collection(store.ConversationsCollection),
		messages:      db.Collection(store.MessagesCollection),
		replies:       replies,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage stores the user message and the generated reply, creating the
// conversation first when none is given. The conversation id is not checked
// against existing conversations. The writes are not transactional: a
// failure after the user message leaves it without a reply.
func (s *Service) SendMessage(ctx context.Context, req SendRequest) (SendResult, error) {
	conversationID := req.ConversationID
	if conversationID == "" {
		id, err := s.conversations.InsertOne(ctx, chat.Conversation{
			UserID:    user.ResolveID(req.UserID),
			CreatedAt: s.now(),
		})
		if err != nil {
			return SendResult{}, fmt.Errorf("create conversation: %w", err)
		}
		conversationID = id.String()
	}

	if err := s.appendMessage(ctx, conversationID, chat.SenderUser, req.Message); err != nil {
		return SendResult{}, err
	}

	reply, err := s.replies.Reply(ctx, conversationID, req.Message)
	if err != nil {
		return SendResult{}, fmt.Errorf("generate reply: %w", err)
	}

	if err := s.appendMessage(ctx, conversationID, chat.SenderAI, reply); err != nil {
		return SendResult{}, err
	}

	return SendResult{Reply: reply, ConversationID: conversationID}, nil
}

func (s *Service) appendMessage(ctx context.Context, conversationID string, sender chat.Sender, text string) error {
	_, err := s.messages.InsertOne(ctx, chat.Message{
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      s.now(),
	})
	if err != nil {
		return fmt.Errorf("save %s message: %w", sender, err)
	}
	return nil
}

// ListConversations returns every conversation started by the user.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	conversations := make([]chat.Conversation, 0)
	if err := s.conversations.Find(ctx, store.Filter{"user_id": user.ResolveID(userID)}, &conversations); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if conversations == nil {
		conversations = []chat.Conversation{}
	}
	return conversations, nil
}

// ListMessages returns the transcript of a conversation in store order.
func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	messages := make([]chat.Message, 0)
	if err := s.messages.Find(ctx, store.Filter{"conversation_id": conversationID}, &messages); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	return messages, nil
}
