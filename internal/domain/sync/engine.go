// Package sync owns the active-conversation concept: it decides what to
// fetch and reconciles fetched histories into the stores.
package sync

import (
	"context"
	gosync "sync"

	"github.com/rs/zerolog"

	"teamhub/clients/chat-sync/internal/domain/chaterrors"
	"teamhub/clients/chat-sync/internal/domain/conversation"
	"teamhub/clients/chat-sync/internal/infrastructure/metrics"
	"teamhub/clients/chat-sync/internal/notify"
)

// State describes the engine's position in the fetch lifecycle.
type State string

const (
	// StateIdle means no conversation is selected.
	StateIdle State = "idle"
	// StateLoading means a history fetch is in flight for the selection.
	StateLoading State = "loading"
	// StateReady means the store holds the active conversation's history.
	StateReady State = "ready"
)

// Engine keeps the conversation directory and message store consistent
// with the single active conversation. At most one conversation is active
// at a time; selecting a new one clears the store immediately and stale
// fetch results are discarded by a generation check at resolution time
// (last selection wins). Superseded fetches are never aborted at the
// transport level.
type Engine struct {
	mu         gosync.Mutex
	state      State
	activeID   int64
	generation uint64

	directory *conversation.Directory
	store     *conversation.MessageStore
	messages  conversation.MessageGateway
	notifier  notify.Notifier
	log       zerolog.Logger

	resetHooks []func()
}

// NewEngine creates an idle engine over the given stores and gateway.
func NewEngine(
	directory *conversation.Directory,
	store *conversation.MessageStore,
	messages conversation.MessageGateway,
	notifier notify.Notifier,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		state:     StateIdle,
		directory: directory,
		store:     store,
		messages:  messages,
		notifier:  notifier,
		log:       log.With().Str("component", "sync-engine").Logger(),
	}
}

// OnReset registers a hook invoked whenever the active conversation
// changes or is cleared. The selection controller registers its Cancel
// here so selection state never survives a switch.
func (e *Engine) OnReset(hook func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetHooks = append(e.resetHooks, hook)
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ActiveID returns the id of the active conversation, or 0 when idle.
// After a failed load the selected id is retained so the caller can
// retry Activate.
func (e *Engine) ActiveID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID
}

// Activate selects a conversation: the store is cleared and selection
// state reset before the fetch is issued, and the fetched history is
// installed only if no newer selection happened while it was in flight.
// A discarded stale result is not an error.
func (e *Engine) Activate(ctx context.Context, conversationID int64) error {
	e.mu.Lock()
	e.generation++
	issued := e.generation
	e.activeID = conversationID
	e.state = StateLoading
	e.store.Clear()
	hooks := append([]func(){}, e.resetHooks...)
	e.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}

	history, err := e.messages.ListByConversation(ctx, conversationID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if issued != e.generation {
		metrics.StaleFetchesDiscarded.Inc()
		e.log.Debug().
			Int64("conversation_id", conversationID).
			Uint64("generation", issued).
			Msg("stale fetch discarded")
		return nil
	}

	if err != nil {
		metrics.MessageFetchesTotal.WithLabelValues("error").Inc()
		e.state = StateIdle
		e.notifier.Error(chaterrors.OpLoadMessages.DefaultNotice())
		e.log.Error().
			Err(err).
			Int64("conversation_id", conversationID).
			Msg("message fetch failed")
		return err
	}

	e.store.Replace(conversationID, history)
	if tail, ok := e.store.Tail(); ok {
		e.directory.SetLastMessage(conversationID, tail.Preview())
	}
	e.directory.ZeroUnread(conversationID)
	e.state = StateReady

	metrics.MessageFetchesTotal.WithLabelValues("success").Inc()
	e.log.Info().
		Int64("conversation_id", conversationID).
		Int("messages", e.store.Len()).
		Msg("conversation activated")
	return nil
}

// Clear deselects the active conversation and empties the store.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.generation++
	e.activeID = 0
	e.state = StateIdle
	e.store.Clear()
	hooks := append([]func(){}, e.resetHooks...)
	e.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}
