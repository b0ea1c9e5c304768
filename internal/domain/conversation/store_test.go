package conversation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/clients/chat-sync/internal/domain/conversation"
)

func TestMessageStore_Replace(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := conversation.NewMessageStore()

	store.Replace(1, []conversation.Message{
		msgAt(1, 1, 5, "a", base),
		msgAt(2, 1, 5, "b", base.Add(time.Minute)),
		msgAt(2, 1, 5, "b again", base.Add(time.Minute)),
		msgAt(3, 1, 5, "c", base.Add(2*time.Minute)),
	})

	assert.EqualValues(t, 1, store.ConversationID())
	require.Equal(t, 3, store.Len(), "duplicate ids are dropped")

	snap := store.Snapshot()
	for i := 1; i < len(snap); i++ {
		prev := snap[i-1]
		assert.True(t, prev.Before(&snap[i]), "fetched ascending order is preserved")
	}

	// Replace is wholesale: a second history fully displaces the first.
	store.Replace(2, []conversation.Message{msgAt(9, 2, 5, "other", base)})
	assert.EqualValues(t, 2, store.ConversationID())
	assert.Equal(t, 1, store.Len())
}

func TestMessageStore_Append(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := conversation.NewMessageStore()
	store.Replace(1, []conversation.Message{msgAt(1, 1, 5, "a", base)})

	store.Append(msgAt(2, 1, 5, "b", base.Add(time.Minute)))
	require.Equal(t, 2, store.Len())
	tail, ok := store.Tail()
	require.True(t, ok)
	assert.EqualValues(t, 2, tail.ID)

	// Messages for another conversation never bleed in.
	store.Append(msgAt(3, 99, 5, "stray", base.Add(2*time.Minute)))
	assert.Equal(t, 2, store.Len())

	// Known ids are ignored.
	store.Append(msgAt(2, 1, 5, "dup", base.Add(3*time.Minute)))
	assert.Equal(t, 2, store.Len())

	// An unbound store accepts nothing.
	store.Clear()
	store.Append(msgAt(4, 1, 5, "late", base))
	assert.Zero(t, store.Len())
}

func TestMessageStore_RemoveBatch(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := conversation.NewMessageStore()
	store.Replace(1, []conversation.Message{
		msgAt(1, 1, 5, "a", base),
		msgAt(2, 1, 6, "b", base.Add(time.Minute)),
		msgAt(3, 1, 5, "c", base.Add(2*time.Minute)),
		msgAt(4, 1, 5, "d", base.Add(3*time.Minute)),
	})

	store.RemoveBatch([]int64{1, 3, 99})

	require.Equal(t, 2, store.Len())
	_, ok := store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(3)
	assert.False(t, ok)
	kept, ok := store.Get(2)
	require.True(t, ok)
	assert.Equal(t, "b", kept.Content)
	tail, ok := store.Tail()
	require.True(t, ok)
	assert.EqualValues(t, 4, tail.ID)
}

func TestMessageStore_AuthoredBy(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := conversation.NewMessageStore()
	store.Replace(1, []conversation.Message{
		msgAt(1, 1, 5, "mine", base),
		msgAt(2, 1, 6, "theirs", base.Add(time.Minute)),
		msgAt(3, 1, 5, "mine too", base.Add(2*time.Minute)),
	})

	assert.Equal(t, []int64{1, 3}, store.AuthoredBy(5))
	assert.Equal(t, []int64{2}, store.AuthoredBy(6))
	assert.Nil(t, store.AuthoredBy(7))
}

func TestMessage_Before(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	earlier := msgAt(2, 1, 5, "a", base)
	later := msgAt(1, 1, 5, "b", base.Add(time.Second))
	tieLow := msgAt(3, 1, 5, "c", base)

	assert.True(t, earlier.Before(&later))
	assert.False(t, later.Before(&earlier))
	assert.True(t, earlier.Before(&tieLow), "ties break by id ascending")
}
