// Package mutation executes the user-initiated writes: send message,
// create conversation, add members, and batch delete. Every operation is
// confirmed-only: local state changes only after the server acknowledges,
// so a failure leaves the stores untouched. Nothing is retried
// automatically.
package mutation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"teamhub/clients/chat-sync/internal/domain/chaterrors"
	"teamhub/clients/chat-sync/internal/domain/conversation"
	"teamhub/clients/chat-sync/internal/infrastructure/metrics"
	"teamhub/clients/chat-sync/internal/notify"
)

// ActiveConversation reports which conversation currently owns the
// message store. The sync engine satisfies this.
type ActiveConversation interface {
	ActiveID() int64
}

// Pipeline coordinates the four write operations against the stores.
type Pipeline struct {
	directory     *conversation.Directory
	store         *conversation.MessageStore
	conversations conversation.Gateway
	messages      conversation.MessageGateway
	active        ActiveConversation
	notifier      notify.Notifier
	log           zerolog.Logger
}

// NewPipeline creates a pipeline over the given stores and gateways.
func NewPipeline(
	directory *conversation.Directory,
	store *conversation.MessageStore,
	conversations conversation.Gateway,
	messages conversation.MessageGateway,
	active ActiveConversation,
	notifier notify.Notifier,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		directory:     directory,
		store:         store,
		conversations: conversations,
		messages:      messages,
		active:        active,
		notifier:      notifier,
		log:           log.With().Str("component", "mutation-pipeline").Logger(),
	}
}

// SendMessage posts a message to the active conversation. The confirmed
// message is appended at the store tail and the directory's last_message
// preview refreshed. Sending to a conversation that is not active fails
// with ErrNoActiveConversation.
func (p *Pipeline) SendMessage(ctx context.Context, conversationID int64, payload conversation.SendPayload) (*conversation.Message, error) {
	if p.active.ActiveID() != conversationID {
		p.notifier.Error(chaterrors.OpSendMessage.DefaultNotice())
		return nil, chaterrors.ErrNoActiveConversation
	}
	if payload.Type == "" {
		payload.Type = conversation.MessageTypeText
	}

	msg, err := p.messages.Send(ctx, conversationID, payload)
	if err != nil {
		p.fail(chaterrors.OpSendMessage, err)
		return nil, err
	}

	p.store.Append(*msg)
	p.directory.SetLastMessage(conversationID, msg.Preview())

	metrics.MutationsTotal.WithLabelValues(string(chaterrors.OpSendMessage), "success").Inc()
	p.log.Info().
		Int64("conversation_id", conversationID).
		Int64("message_id", msg.ID).
		Msg("message sent")
	return msg, nil
}

// CreateConversation creates a conversation in a project with an initial
// member set and prepends the confirmed entry to the directory.
func (p *Pipeline) CreateConversation(ctx context.Context, params conversation.CreateParams) (*conversation.Conversation, error) {
	if params.ProjectID == 0 || len(params.MemberIDs) == 0 {
		err := fmt.Errorf("create conversation: project id and members are required")
		p.notifier.Error(chaterrors.OpCreateConversation.DefaultNotice())
		return nil, err
	}

	created, err := p.conversations.Create(ctx, params)
	if err != nil {
		p.fail(chaterrors.OpCreateConversation, err)
		return nil, err
	}

	p.directory.Upsert(*created)

	metrics.MutationsTotal.WithLabelValues(string(chaterrors.OpCreateConversation), "success").Inc()
	p.log.Info().Int64("conversation_id", created.ID).Msg("conversation created")
	return created, nil
}

// AddMembers merges the given users into a conversation's member set.
// The server de-duplicates; the directory entry is replaced with the
// server's updated representation.
func (p *Pipeline) AddMembers(ctx context.Context, conversationID int64, memberIDs []int64) (*conversation.Conversation, error) {
	if len(memberIDs) == 0 {
		err := fmt.Errorf("add members: member ids are required")
		p.notifier.Error(chaterrors.OpAddMembers.DefaultNotice())
		return nil, err
	}

	updated, err := p.conversations.AddMembers(ctx, conversationID, memberIDs)
	if err != nil {
		p.fail(chaterrors.OpAddMembers, err)
		return nil, err
	}

	p.directory.Upsert(*updated)

	metrics.MutationsTotal.WithLabelValues(string(chaterrors.OpAddMembers), "success").Inc()
	p.log.Info().
		Int64("conversation_id", conversationID).
		Int("members", len(updated.Members)).
		Msg("members added")
	return updated, nil
}

// DeleteMessages removes a batch of messages in a single request. On
// success every id is removed from the store in one atomic local update;
// a rejected batch leaves all of them in place. Ownership is enforced
// server-side; the client only restricts what is selectable.
func (p *Pipeline) DeleteMessages(ctx context.Context, messageIDs []int64) error {
	if len(messageIDs) == 0 {
		p.notifier.Error(chaterrors.OpDeleteMessages.DefaultNotice())
		return fmt.Errorf("delete messages: message ids are required")
	}

	if err := p.messages.DeleteBatch(ctx, messageIDs); err != nil {
		p.fail(chaterrors.OpDeleteMessages, err)
		return err
	}

	p.store.RemoveBatch(messageIDs)

	metrics.MutationsTotal.WithLabelValues(string(chaterrors.OpDeleteMessages), "success").Inc()
	p.log.Info().Int("messages", len(messageIDs)).Msg("messages deleted")
	return nil
}

func (p *Pipeline) fail(op chaterrors.Operation, err error) {
	metrics.MutationsTotal.WithLabelValues(string(op), "error").Inc()
	p.notifier.Error(op.DefaultNotice())
	p.log.Error().Err(err).Str("operation", string(op)).Msg("mutation failed")
}
