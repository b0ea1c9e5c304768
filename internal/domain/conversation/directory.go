package conversation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"teamhub/clients/chat-sync/internal/infrastructure/metrics"
)

const defaultBackfillLimit = 4

// Directory holds the ordered set of conversations visible to the current
// user. Entries are unique by id; freshly created conversations are
// prepended, loaded order is otherwise preserved. Presenters read
// snapshots; only the sync engine and the mutation pipeline mutate it.
type Directory struct {
	mu    sync.RWMutex
	order []int64
	byID  map[int64]Conversation

	conversations Gateway
	messages      MessageGateway
	backfillLimit int
	log           zerolog.Logger
}

// NewDirectory creates an empty directory backed by the given gateways.
// backfillLimit bounds concurrent last-message backfill fetches; values
// below 1 fall back to the default.
func NewDirectory(conversations Gateway, messages MessageGateway, backfillLimit int, log zerolog.Logger) *Directory {
	if backfillLimit < 1 {
		backfillLimit = defaultBackfillLimit
	}
	return &Directory{
		byID:          make(map[int64]Conversation),
		conversations: conversations,
		messages:      messages,
		backfillLimit: backfillLimit,
		log:           log.With().Str("component", "conversation-directory").Logger(),
	}
}

// Load fetches all conversations for the current user and replaces the
// directory contents. Conversations missing a last_message preview get a
// follow-up fetch of their message history; a failed backfill leaves that
// single conversation without a preview and never aborts the load. On
// list failure the directory keeps its prior state.
func (d *Directory) Load(ctx context.Context) error {
	listed, err := d.conversations.List(ctx)
	if err != nil {
		metrics.DirectoryLoadsTotal.WithLabelValues("error").Inc()
		return err
	}

	d.backfill(ctx, listed)

	d.mu.Lock()
	d.order = d.order[:0]
	d.byID = make(map[int64]Conversation, len(listed))
	for _, conv := range listed {
		if _, dup := d.byID[conv.ID]; dup {
			continue
		}
		d.order = append(d.order, conv.ID)
		d.byID[conv.ID] = conv
	}
	count := len(d.order)
	d.mu.Unlock()

	metrics.DirectoryLoadsTotal.WithLabelValues("success").Inc()
	d.log.Info().Int("conversations", count).Msg("directory loaded")
	return nil
}

// backfill fills missing last_message previews from full message history,
// a bounded number of fetches at a time. Errors are swallowed per
// conversation.
func (d *Directory) backfill(ctx context.Context, listed []Conversation) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(d.backfillLimit)

	for i := range listed {
		if listed[i].LastMessage != nil {
			continue
		}
		conv := &listed[i]
		group.Go(func() error {
			history, err := d.messages.ListByConversation(ctx, conv.ID)
			if err != nil {
				metrics.BackfillTotal.WithLabelValues("error").Inc()
				d.log.Warn().
					Err(err).
					Int64("conversation_id", conv.ID).
					Msg("last message backfill failed")
				return nil
			}
			if len(history) > 0 {
				preview := history[len(history)-1].Preview()
				conv.LastMessage = &preview
			}
			metrics.BackfillTotal.WithLabelValues("success").Inc()
			return nil
		})
	}
	_ = group.Wait()
}

// Upsert inserts or replaces a conversation by id. New entries are
// prepended, consistent with freshly created conversations appearing at
// the top of the list; replaced entries keep their position.
func (d *Directory) Upsert(conv Conversation) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byID[conv.ID]; !exists {
		d.order = append([]int64{conv.ID}, d.order...)
	}
	d.byID[conv.ID] = conv
}

// Get returns the conversation with the given id.
func (d *Directory) Get(id int64) (Conversation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	conv, ok := d.byID[id]
	return conv, ok
}

// Len returns the number of conversations held.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Snapshot returns the conversations in display order.
func (d *Directory) Snapshot() []Conversation {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Conversation, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// Filter returns the conversations matching query by name or project
// name, case-insensitively, in display order. It is a read-only view:
// underlying storage is never touched and the view restarts on every
// call.
func (d *Directory) Filter(query string) []Conversation {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Conversation, 0, len(d.order))
	for _, id := range d.order {
		conv := d.byID[id]
		if conv.Matches(query) {
			out = append(out, conv)
		}
	}
	return out
}

// SetLastMessage refreshes the cached preview for a conversation. Older
// previews never overwrite newer ones, so the cache is monotonic from the
// client's point of view. Unknown ids are ignored.
func (d *Directory) SetLastMessage(id int64, preview LastMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	conv, ok := d.byID[id]
	if !ok {
		return
	}
	if conv.LastMessage != nil && preview.CreatedAt.Before(conv.LastMessage.CreatedAt) {
		return
	}
	conv.LastMessage = &preview
	d.byID[id] = conv
}

// ZeroUnread clears the advisory unread counter for a conversation. The
// server-authoritative value is adopted again on the next Load.
func (d *Directory) ZeroUnread(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	conv, ok := d.byID[id]
	if !ok || conv.UnreadCount == 0 {
		return
	}
	conv.UnreadCount = 0
	d.byID[id] = conv
}
