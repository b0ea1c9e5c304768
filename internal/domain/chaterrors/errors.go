// Package chaterrors defines error types and classification for sync and
// mutation operations.
package chaterrors

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the core. Transport failures are wrapped in
// RequestError instead; these cover purely local preconditions.
var (
	// ErrNoActiveConversation is returned when a send targets a conversation
	// that is not the currently active one.
	ErrNoActiveConversation = errors.New("no active conversation")

	// ErrEmptySelection marks a delete confirmation with nothing selected.
	// It is a guarded no-op signal, not a failure.
	ErrEmptySelection = errors.New("no messages selected")
)

// Operation identifies which user-initiated operation failed. Used for
// metrics labels and default notices.
type Operation string

const (
	OpLoadConversations  Operation = "load_conversations"
	OpLoadMessages       Operation = "load_messages"
	OpSendMessage        Operation = "send_message"
	OpCreateConversation Operation = "create_conversation"
	OpAddMembers         Operation = "add_members"
	OpDeleteMessages     Operation = "delete_messages"
)

// DefaultNotice returns the user-facing default message for a failed
// operation. The client does not distinguish 4xx from 5xx at this layer.
func (o Operation) DefaultNotice() string {
	switch o {
	case OpLoadConversations:
		return "Failed to load conversations"
	case OpLoadMessages:
		return "Failed to load messages"
	case OpSendMessage:
		return "Failed to send message"
	case OpCreateConversation:
		return "Failed to create conversation"
	case OpAddMembers:
		return "Failed to add members"
	case OpDeleteMessages:
		return "Failed to delete messages"
	default:
		return "Request failed"
	}
}

// RequestError represents a failed request against the chat backend. Any
// transport or server failure is treated uniformly.
type RequestError struct {
	Op         Operation
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed", e.Op)
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NewRequestError wraps a transport or server failure for an operation.
func NewRequestError(op Operation, statusCode int, cause error) *RequestError {
	return &RequestError{Op: op, StatusCode: statusCode, Cause: cause}
}

// IsRequestError reports whether err is (or wraps) a RequestError.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
