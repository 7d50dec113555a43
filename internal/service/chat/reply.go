package chat

import "context"

// CannedReplyText is the empathetic reply sent for every chat message.
const CannedReplyText = "Hey 🤍 I hear you. Tum jo feel kar rahe ho wo valid hai. " +
	"Thoda sa deep breath lo… main yahin hoon tumhare saath."

// ReplyGenerator produces the assistant's answer to a user message.
type ReplyGenerator interface {
	Reply(ctx context.Context, conversationID, message string) (string, error)
}

// CannedReply always answers with CannedReplyText.
type CannedReply struct{}

// Reply implements ReplyGenerator.
func (CannedReply) Reply(context.Context, string, string) (string, error) {
	return CannedReplyText, nil
}
