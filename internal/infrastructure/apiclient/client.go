// Package apiclient implements the conversation and message gateways
// against the chat backend's REST endpoints.
package apiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"teamhub/clients/chat-sync/internal/domain/chaterrors"
	"teamhub/clients/chat-sync/internal/domain/conversation"
)

// Config captures the knobs for the REST client.
type Config struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

// Client talks to the chat backend. It implements conversation.Gateway
// and conversation.MessageGateway. Requests carry the bearer token and a
// fresh X-Request-ID for correlation; timeouts are the transport's
// responsibility and surface as ordinary request errors.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

var (
	_ conversation.Gateway        = (*Client)(nil)
	_ conversation.MessageGateway = (*Client)(nil)
)

// New wires a resty client for the backend.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.AuthToken != "" {
		httpClient.SetAuthToken(cfg.AuthToken)
	}
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	return &Client{
		http: httpClient,
		log:  log.With().Str("component", "api-client").Logger(),
	}
}

type conversationEnvelope struct {
	Data conversation.Conversation `json:"data"`
}

type conversationListEnvelope struct {
	Data []conversation.Conversation `json:"data"`
}

type messageEnvelope struct {
	Data conversation.Message `json:"data"`
}

type messageListEnvelope struct {
	Data []conversation.Message `json:"data"`
}

// List fetches all conversations visible to the current user.
func (c *Client) List(ctx context.Context) ([]conversation.Conversation, error) {
	var out conversationListEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/conversations")
	if err := c.check(chaterrors.OpLoadConversations, resp, err); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListByConversation fetches a conversation's messages, ordered oldest to
// newest by the server.
func (c *Client) ListByConversation(ctx context.Context, conversationID int64) ([]conversation.Message, error) {
	var out messageListEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/conversations/%d/messages", conversationID))
	if err := c.check(chaterrors.OpLoadMessages, resp, err); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Send posts a message as multipart form data, with the attachment
// streamed when present.
func (c *Client) Send(ctx context.Context, conversationID int64, payload conversation.SendPayload) (*conversation.Message, error) {
	msgType := payload.Type
	if msgType == "" {
		msgType = conversation.MessageTypeText
	}

	var out messageEnvelope
	req := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetMultipartFormData(map[string]string{
			"content": payload.Content,
			"type":    string(msgType),
		})
	if payload.File != nil {
		req.SetMultipartField("file", payload.File.Name, payload.File.MimeType, payload.File.Reader)
	}

	resp, err := req.Post(fmt.Sprintf("/conversations/%d/messages", conversationID))
	if err := c.check(chaterrors.OpSendMessage, resp, err); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Create creates a conversation in a project with an initial member set.
func (c *Client) Create(ctx context.Context, params conversation.CreateParams) (*conversation.Conversation, error) {
	var out conversationEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(params).
		SetResult(&out).
		Post("/conversations")
	if err := c.check(chaterrors.OpCreateConversation, resp, err); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// AddMembers merges users into the conversation's member set and returns
// the server's updated representation.
func (c *Client) AddMembers(ctx context.Context, conversationID int64, memberIDs []int64) (*conversation.Conversation, error) {
	var out conversationEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string][]int64{"member_ids": memberIDs}).
		SetResult(&out).
		Post(fmt.Sprintf("/conversations/%d/members", conversationID))
	if err := c.check(chaterrors.OpAddMembers, resp, err); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteBatch removes a batch of messages in one request. A rejected
// batch fails as a whole.
func (c *Client) DeleteBatch(ctx context.Context, messageIDs []int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string][]int64{"message_ids": messageIDs}).
		Delete("/messages")
	return c.check(chaterrors.OpDeleteMessages, resp, err)
}

// check folds transport errors and non-2xx responses into the uniform
// request error. 4xx and 5xx are not distinguished at this layer.
func (c *Client) check(op chaterrors.Operation, resp *resty.Response, err error) error {
	if err != nil {
		c.log.Error().Err(err).Str("operation", string(op)).Msg("request failed")
		return chaterrors.NewRequestError(op, 0, err)
	}
	if resp.IsError() {
		c.log.Error().
			Str("operation", string(op)).
			Int("status_code", resp.StatusCode()).
			Str("request_id", resp.Request.Header.Get("X-Request-ID")).
			Msg("request rejected")
		return chaterrors.NewRequestError(op, resp.StatusCode(), nil)
	}
	return nil
}
