package conversation

import (
	"io"
	"strings"
	"time"
)

// ===============================================
// Conversation Types
// ===============================================

// Project is the owning project reference. A conversation belongs to
// exactly one project.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User identifies a participating user. Equality of ID with the current
// session's user id is the only client-side authorization signal.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// LastMessage is a denormalized preview of the newest message in a
// conversation. It is not authoritative and may be stale or absent.
type LastMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation represents a chat thread visible to the current user.
type Conversation struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Project     Project      `json:"project"`
	Members     []User       `json:"members"`
	LastMessage *LastMessage `json:"last_message,omitempty"`
	UnreadCount int          `json:"unread_count"`
	CreatedAt   time.Time    `json:"created_at"`
}

// HasMember reports whether the given user participates in the
// conversation.
func (c *Conversation) HasMember(userID int64) bool {
	for _, m := range c.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// Matches reports whether the conversation name or its project name
// contains query, case-insensitively. An empty query matches everything.
func (c *Conversation) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Project.Name), query)
}

// ===============================================
// Message Types
// ===============================================

// MessageType defines the kind of message content.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// FileMeta describes an attachment stored by the server.
type FileMeta struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type,omitempty"`
}

// Message is an individual chat message. The list for a conversation is
// totally ordered by CreatedAt, ties broken by ID ascending.
type Message struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversation_id"`
	UserID         int64       `json:"user_id"`
	User           User        `json:"user"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	File           *FileMeta   `json:"file,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Before reports whether m precedes other in the conversation's total
// order (CreatedAt ascending, ID ascending on ties).
func (m *Message) Before(other *Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}

// Preview projects the message into a LastMessage cache entry.
func (m *Message) Preview() LastMessage {
	return LastMessage{Content: m.Content, CreatedAt: m.CreatedAt}
}

// ===============================================
// Write Payloads
// ===============================================

// FileUpload carries an attachment for a send. The reader is consumed
// once by the transport.
type FileUpload struct {
	Name     string
	MimeType string
	Reader   io.Reader
}

// SendPayload is the body of a message send. Type defaults to text when
// empty.
type SendPayload struct {
	Content string
	Type    MessageType
	File    *FileUpload
}

// CreateParams describes a conversation creation request. Both fields are
// required and MemberIDs must be non-empty.
type CreateParams struct {
	ProjectID int64   `json:"project_id"`
	MemberIDs []int64 `json:"member_ids"`
}
