// Package selection manages the transient multi-select mode used to batch
// delete one's own messages in the active conversation room.
package selection

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"teamhub/clients/chat-sync/internal/domain/chaterrors"
	"teamhub/clients/chat-sync/internal/domain/conversation"
	"teamhub/clients/chat-sync/internal/notify"
)

// UserProvider supplies the current session's user id. Injected so the
// controller is testable with arbitrary identities.
type UserProvider interface {
	CurrentUserID() int64
}

// Deleter performs the batch removal. The mutation pipeline satisfies
// this.
type Deleter interface {
	DeleteMessages(ctx context.Context, messageIDs []int64) error
}

// Controller is the per-room selection state machine. It may only ever
// hold ids of messages authored by the current user; everything else is
// refused at Toggle time. Selection never survives a conversation switch:
// the sync engine calls Cancel through its reset hook.
type Controller struct {
	mu       sync.Mutex
	active   bool
	selected map[int64]struct{}

	store    *conversation.MessageStore
	users    UserProvider
	deleter  Deleter
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewController creates an inactive controller with an empty selection.
func NewController(
	store *conversation.MessageStore,
	users UserProvider,
	deleter Deleter,
	notifier notify.Notifier,
	log zerolog.Logger,
) *Controller {
	return &Controller{
		selected: make(map[int64]struct{}),
		store:    store,
		users:    users,
		deleter:  deleter,
		notifier: notifier,
		log:      log.With().Str("component", "selection-controller").Logger(),
	}
}

// Enter switches selection mode on.
func (c *Controller) Enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
}

// Active reports whether selection mode is on.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Toggle flips membership of a message in the selection. It is a no-op
// outside selection mode, for unknown ids, and for messages not authored
// by the current user.
func (c *Controller) Toggle(messageID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	msg, ok := c.store.Get(messageID)
	if !ok || msg.UserID != c.users.CurrentUserID() {
		return
	}
	if _, hit := c.selected[messageID]; hit {
		delete(c.selected, messageID)
	} else {
		c.selected[messageID] = struct{}{}
	}
}

// SelectAll selects every message in the store authored by the current
// user. No-op outside selection mode.
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	c.selected = make(map[int64]struct{})
	for _, id := range c.store.AuthoredBy(c.users.CurrentUserID()) {
		c.selected[id] = struct{}{}
	}
}

// Cancel clears the selection and leaves selection mode.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Count returns the number of selected messages.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selected)
}

// Selected returns the selected ids in ascending order.
func (c *Controller) Selected() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ConfirmDelete submits the selection as one batch delete. With nothing
// selected it issues no request and only shows a notice. Selection mode
// exits on submit regardless of outcome; a failed batch keeps the
// messages in the store and surfaces its own error notice.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if len(c.selected) == 0 {
		c.reset()
		c.mu.Unlock()
		c.notifier.Error(chaterrors.ErrEmptySelection.Error())
		return nil
	}
	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	c.reset()
	c.mu.Unlock()

	if err := c.deleter.DeleteMessages(ctx, ids); err != nil {
		c.log.Warn().Int("messages", len(ids)).Msg("batch delete rejected")
		return err
	}
	return nil
}

// reset must be called with the lock held.
func (c *Controller) reset() {
	c.active = false
	c.selected = make(map[int64]struct{})
}
