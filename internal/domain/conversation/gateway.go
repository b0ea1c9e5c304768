package conversation

import "context"

// Gateway exposes conversation-level operations of the chat backend.
type Gateway interface {
	List(ctx context.Context) ([]Conversation, error)
	Create(ctx context.Context, params CreateParams) (*Conversation, error)
	AddMembers(ctx context.Context, conversationID int64, memberIDs []int64) (*Conversation, error)
}

// MessageGateway exposes message-level operations of the chat backend.
// ListByConversation returns messages ordered oldest to newest.
type MessageGateway interface {
	ListByConversation(ctx context.Context, conversationID int64) ([]Message, error)
	Send(ctx context.Context, conversationID int64, payload SendPayload) (*Message, error)
	DeleteBatch(ctx context.Context, messageIDs []int64) error
}
