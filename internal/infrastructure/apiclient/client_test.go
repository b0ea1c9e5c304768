package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/clients/chat-sync/internal/domain/chaterrors"
	"teamhub/clients/chat-sync/internal/domain/conversation"
	"teamhub/clients/chat-sync/internal/infrastructure/apiclient"
)

func newClient(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return apiclient.New(apiclient.Config{
		BaseURL:   server.URL,
		AuthToken: "session-token",
		Timeout:   5 * time.Second,
	}, zerolog.Nop())
}

func TestClient_List(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[
			{"id":1,"name":"backend","project":{"id":3,"name":"Platform"},"unread_count":2},
			{"id":2,"name":"design","project":{"id":4,"name":"Mobile"},"last_message":{"content":"ok","created_at":"2025-06-01T10:00:00Z"}}
		]}`)
	})

	convs, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "backend", convs[0].Name)
	assert.Equal(t, 2, convs[0].UnreadCount)
	require.NotNil(t, convs[1].LastMessage)
	assert.Equal(t, "ok", convs[1].LastMessage.Content)
}

func TestClient_ListByConversation(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations/12/messages", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[
			{"id":1,"conversation_id":12,"user_id":5,"content":"first","type":"text","created_at":"2025-06-01T10:00:00Z"},
			{"id":2,"conversation_id":12,"user_id":6,"content":"second","type":"text","created_at":"2025-06-01T10:01:00Z"}
		]}`)
	})

	msgs, err := client.ListByConversation(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.True(t, msgs[0].Before(&msgs[1]))
}

func TestClient_Send_Multipart(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations/12/messages", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "report attached", r.FormValue("content"))
		assert.Equal(t, "file", r.FormValue("type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.txt", header.Filename)
		body, _ := io.ReadAll(file)
		assert.Equal(t, "file payload", string(body))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"id":9,"conversation_id":12,"user_id":5,"content":"report attached","type":"file","file":{"name":"report.txt","size":12,"url":"/files/9"},"created_at":"2025-06-01T10:02:00Z"}}`)
	})

	msg, err := client.Send(context.Background(), 12, conversation.SendPayload{
		Content: "report attached",
		Type:    conversation.MessageTypeFile,
		File: &conversation.FileUpload{
			Name:     "report.txt",
			MimeType: "text/plain",
			Reader:   strings.NewReader("file payload"),
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 9, msg.ID)
	require.NotNil(t, msg.File)
	assert.Equal(t, "report.txt", msg.File.Name)
}

func TestClient_Create(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations", r.URL.Path)

		var body conversation.CreateParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 3, body.ProjectID)
		assert.Equal(t, []int64{7, 9}, body.MemberIDs)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"id":20,"name":"new room","project":{"id":3,"name":"Platform"}}}`)
	})

	created, err := client.Create(context.Background(), conversation.CreateParams{
		ProjectID: 3,
		MemberIDs: []int64{7, 9},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 20, created.ID)
}

func TestClient_AddMembers(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations/12/members", r.URL.Path)

		var body map[string][]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int64{21, 22}, body["member_ids"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"id":12,"members":[{"id":5},{"id":21},{"id":22}]}}`)
	})

	updated, err := client.AddMembers(context.Background(), 12, []int64{21, 22})
	require.NoError(t, err)
	assert.Len(t, updated.Members, 3)
}

func TestClient_DeleteBatch(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)

		var body map[string][]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int64{1, 2, 3}, body["message_ids"])

		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteBatch(context.Background(), []int64{1, 2, 3}))
}

func TestClient_ErrorMapping(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal", http.StatusInternalServerError)
		})

		_, err := client.List(context.Background())
		require.Error(t, err)
		require.True(t, chaterrors.IsRequestError(err))

		var reqErr *chaterrors.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, chaterrors.OpLoadConversations, reqErr.Op)
		assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	})

	t.Run("client error is treated the same", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		})

		err := client.DeleteBatch(context.Background(), []int64{1})
		require.True(t, chaterrors.IsRequestError(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := apiclient.New(apiclient.Config{BaseURL: server.URL, Timeout: time.Second}, zerolog.Nop())

		_, err := client.ListByConversation(context.Background(), 1)
		require.Error(t, err)

		var reqErr *chaterrors.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, chaterrors.OpLoadMessages, reqErr.Op)
		assert.Error(t, reqErr.Unwrap())
	})
}
