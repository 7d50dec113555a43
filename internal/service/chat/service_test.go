package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/soulnest/soulnest/backend/internal/model/chat"
	"github.com/soulnest/soulnest/backend/internal/model/user"
	chat "github.com/soulnest/soulnest/backend/internal/service/chat"
	"github.com/soulnest/soulnest/backend/internal/store"
	"github.com/soulnest/soulnest/backend/internal/store/memory"
)

func fixedClock() func() time.Time {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func countConversations(t *testing.T, db store.DocumentStore, userID string) int {
	t.Helper()
	var all []model.Conversation
	require.NoError(t, db.Collection(store.ConversationsCollection).Find(context.Background(), store.Filter{"user_id": userID}, &all))
	return len(all)
}

func TestSendMessageCreatesConversation(t *testing.T) {
	db := memory.New()
	svc := chat.NewService(db, nil, chat.WithClock(fixedClock()))
	ctx := context.Background()

	res, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hi", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, chat.CannedReplyText, res.Reply)
	require.NotEmpty(t, res.ConversationID)
	assert.Equal(t, 1, countConversations(t, db, "u1"))

	msgs, err := svc.ListMessages(ctx, res.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.Equal(t, model.SenderAI, msgs[1].Sender)
	assert.Equal(t, chat.CannedReplyText, msgs[1].Text)
	for _, m := range msgs {
		assert.Equal(t, res.ConversationID, m.ConversationID)
		assert.False(t, m.ID.IsZero())
	}
}

func TestSendMessageReusesConversation(t *testing.T) {
	db := memory.New()
	svc := chat.NewService(db, nil)
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hello", UserID: "u1"})
	require.NoError(t, err)

	second, err := svc.SendMessage(ctx, chat.SendRequest{Message: "again", ConversationID: first.ConversationID, UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Equal(t, 1, countConversations(t, db, "u1"))

	msgs, err := svc.ListMessages(ctx, first.ConversationID)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestSendMessageAcceptsUnknownConversation(t *testing.T) {
	db := memory.New()
	svc := chat.NewService(db, nil)
	ctx := context.Background()

	res, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hi", ConversationID: "orphan"})
	require.NoError(t, err)
	assert.Equal(t, "orphan", res.ConversationID)
	assert.Equal(t, 0, countConversations(t, db, user.DefaultID))

	msgs, err := svc.ListMessages(ctx, "orphan")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestSendMessageTwiceWithoutConversationCreatesTwo(t *testing.T) {
	svc := chat.NewService(memory.New(), nil)
	ctx := context.Background()

	a, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hi", UserID: "u1"})
	require.NoError(t, err)
	b, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hi", UserID: "u1"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ConversationID, b.ConversationID)

	convs, err := svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, convs, 2)
}

func TestSendMessageDefaultsUser(t *testing.T) {
	svc := chat.NewService(memory.New(), nil, chat.WithClock(fixedClock()))
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hi"})
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, "")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, user.DefaultID, convs[0].UserID)
	assert.True(t, fixedClock()().Equal(convs[0].CreatedAt))
}

type echoReply struct{}

func (echoReply) Reply(_ context.Context, _ string, message string) (string, error) {
	return "echo: " + message, nil
}

func TestSendMessageUsesReplyGenerator(t *testing.T) {
	svc := chat.NewService(memory.New(), echoReply{})

	res, err := svc.SendMessage(context.Background(), chat.SendRequest{Message: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "echo: ping", res.Reply)
}

type failingReply struct{}

func (failingReply) Reply(context.Context, string, string) (string, error) {
	return "", errors.New("model offline")
}

func TestSendMessageReplyFailureKeepsUserMessage(t *testing.T) {
	svc := chat.NewService(memory.New(), failingReply{})
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hi", ConversationID: "c1"})
	require.Error(t, err)

	msgs, err := svc.ListMessages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
}

var errStoreDown = errors.New("store down")

type brokenStore struct{ store.DocumentStore }

func (brokenStore) Collection(string) store.Collection { return brokenCollection{} }

type brokenCollection struct{ store.Collection }

func (brokenCollection) InsertOne(context.Context, any) (store.ID, error) {
	return "", errStoreDown
}

func (brokenCollection) Find(context.Context, store.Filter, any, ...store.FindOption) error {
	return errStoreDown
}

func TestStoreFailuresPropagate(t *testing.T) {
	svc := chat.NewService(brokenStore{}, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, chat.SendRequest{Message: "hi"})
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.ListConversations(ctx, "u1")
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.ListMessages(ctx, "c1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestListEmptyReturnsNonNil(t *testing.T) {
	svc := chat.NewService(memory.New(), nil)
	ctx := context.Background()

	convs, err := svc.ListConversations(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)

	msgs, err := svc.ListMessages(ctx, "none")
	require.NoError(t, err)
	assert.NotNil(t, msgs)
}
