package conversation

import "sync"

// MessageStore holds the ordered message list for the single active
// conversation. Contents always belong to exactly one conversation;
// switching clears the store before the new history arrives. Entries are
// unique by id and kept in ascending (created_at, id) order.
type MessageStore struct {
	mu             sync.RWMutex
	conversationID int64
	messages       []Message
	index          map[int64]int
}

// NewMessageStore creates an empty store with no owning conversation.
func NewMessageStore() *MessageStore {
	return &MessageStore{index: make(map[int64]int)}
}

// ConversationID returns the id of the conversation the contents belong
// to, or 0 when the store is unbound.
func (s *MessageStore) ConversationID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID
}

// Len returns the number of messages held.
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear empties the store and unbinds it from any conversation.
func (s *MessageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = 0
	s.messages = nil
	s.index = make(map[int64]int)
}

// Replace swaps the contents wholesale with a freshly fetched history for
// the given conversation. The fetched order is preserved; duplicate ids
// are dropped.
func (s *MessageStore) Replace(conversationID int64, history []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversationID = conversationID
	s.messages = make([]Message, 0, len(history))
	s.index = make(map[int64]int, len(history))
	for _, msg := range history {
		if _, dup := s.index[msg.ID]; dup {
			continue
		}
		s.index[msg.ID] = len(s.messages)
		s.messages = append(s.messages, msg)
	}
}

// Append adds a confirmed message at the tail. Server timestamps are
// monotonically increasing per conversation, so the tail keeps the total
// order. Messages for another conversation or with an already known id
// are ignored.
func (s *MessageStore) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conversationID == 0 || msg.ConversationID != s.conversationID {
		return
	}
	if _, dup := s.index[msg.ID]; dup {
		return
	}
	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)
}

// RemoveBatch deletes every listed id in one atomic update. Ids not
// present are ignored.
func (s *MessageStore) RemoveBatch(messageIDs []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doomed := make(map[int64]struct{}, len(messageIDs))
	for _, id := range messageIDs {
		doomed[id] = struct{}{}
	}

	kept := s.messages[:0]
	for _, msg := range s.messages {
		if _, hit := doomed[msg.ID]; !hit {
			kept = append(kept, msg)
		}
	}
	s.messages = kept

	s.index = make(map[int64]int, len(s.messages))
	for i, msg := range s.messages {
		s.index[msg.ID] = i
	}
}

// Get returns the message with the given id.
func (s *MessageStore) Get(id int64) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Message{}, false
	}
	return s.messages[i], true
}

// Tail returns the newest message held.
func (s *MessageStore) Tail() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Snapshot returns the messages in order.
func (s *MessageStore) Snapshot() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// AuthoredBy returns the ids of all held messages authored by the given
// user, in order.
func (s *MessageStore) AuthoredBy(userID int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for _, msg := range s.messages {
		if msg.UserID == userID {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}
