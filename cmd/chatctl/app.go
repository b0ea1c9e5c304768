package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"teamhub/clients/chat-sync/internal/config"
	"teamhub/clients/chat-sync/internal/domain/conversation"
	"teamhub/clients/chat-sync/internal/domain/mutation"
	"teamhub/clients/chat-sync/internal/domain/selection"
	chatsync "teamhub/clients/chat-sync/internal/domain/sync"
	"teamhub/clients/chat-sync/internal/infrastructure/apiclient"
	"teamhub/clients/chat-sync/internal/infrastructure/auth"
	"teamhub/clients/chat-sync/internal/infrastructure/logger"
	"teamhub/clients/chat-sync/internal/notify"
)

// app wires the client core for one CLI invocation.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	directory *conversation.Directory
	store     *conversation.MessageStore
	engine    *chatsync.Engine
	pipeline  *mutation.Pipeline
	selection *selection.Controller
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	users, err := auth.FromConfig(cfg, log)
	if err != nil {
		return nil, err
	}

	client := apiclient.New(apiclient.Config{
		BaseURL:   cfg.APIBaseURL,
		AuthToken: cfg.AuthToken,
		Timeout:   cfg.HTTPTimeout,
	}, log)

	notifier := notify.NewLogNotifier(log)
	directory := conversation.NewDirectory(client, client, cfg.BackfillConcurrency, log)
	store := conversation.NewMessageStore()
	engine := chatsync.NewEngine(directory, store, client, notifier, log)
	pipeline := mutation.NewPipeline(directory, store, client, client, engine, notifier, log)
	sel := selection.NewController(store, users, pipeline, notifier, log)
	engine.OnReset(sel.Cancel)

	return &app{
		cfg:       cfg,
		log:       log,
		directory: directory,
		store:     store,
		engine:    engine,
		pipeline:  pipeline,
		selection: sel,
	}, nil
}

func formatConversation(conv conversation.Conversation) string {
	line := fmt.Sprintf("#%d  %s  [%s]", conv.ID, conv.Name, conv.Project.Name)
	if conv.UnreadCount > 0 {
		line += fmt.Sprintf("  (%d unread)", conv.UnreadCount)
	}
	if conv.LastMessage != nil {
		line += fmt.Sprintf("\n      %s  %s", conv.LastMessage.CreatedAt.Format("2006-01-02 15:04"), conv.LastMessage.Content)
	}
	return line
}

func formatMessage(msg conversation.Message) string {
	line := fmt.Sprintf("%s  %s: %s", msg.CreatedAt.Format("15:04:05"), msg.User.Name, msg.Content)
	if msg.File != nil {
		line += fmt.Sprintf("  [%s]", msg.File.Name)
	}
	return line
}
