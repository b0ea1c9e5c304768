package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"teamhub/clients/chat-sync/internal/domain/conversation"
)

var (
	filterQuery   string
	createProject int64
	createMembers string
	sendFilePath  string
)

func init() {
	conversationsCmd.Flags().StringVar(&filterQuery, "filter", "", "Filter by conversation or project name")
	createCmd.Flags().Int64Var(&createProject, "project", 0, "Owning project id (required)")
	createCmd.Flags().StringVar(&createMembers, "members", "", "Comma-separated initial member ids (required)")
	sendCmd.Flags().StringVar(&sendFilePath, "file", "", "Attach a file")
}

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List conversations with last-message previews",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.directory.Load(cmd.Context()); err != nil {
			return err
		}
		for _, conv := range a.directory.Filter(filterQuery) {
			fmt.Println(formatConversation(conv))
		}
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <conversation-id>",
	Short: "Open a conversation and print its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		convID, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.directory.Load(cmd.Context()); err != nil {
			return err
		}
		if err := a.engine.Activate(cmd.Context(), convID); err != nil {
			return err
		}
		for _, msg := range a.store.Snapshot() {
			fmt.Println(formatMessage(msg))
		}
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <conversation-id> <content>",
	Short: "Send a message to a conversation",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		convID, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.engine.Activate(cmd.Context(), convID); err != nil {
			return err
		}

		payload := conversation.SendPayload{Content: strings.Join(args[1:], " ")}
		if sendFilePath != "" {
			f, err := os.Open(sendFilePath)
			if err != nil {
				return err
			}
			defer f.Close()
			payload.Type = conversation.MessageTypeFile
			payload.File = &conversation.FileUpload{
				Name:   filepath.Base(sendFilePath),
				Reader: f,
			}
		}

		msg, err := a.pipeline.SendMessage(cmd.Context(), convID, payload)
		if err != nil {
			return err
		}
		fmt.Println(formatMessage(*msg))
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a conversation in a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		members, err := parseIDList(createMembers)
		if err != nil {
			return err
		}
		created, err := a.pipeline.CreateConversation(cmd.Context(), conversation.CreateParams{
			ProjectID: createProject,
			MemberIDs: members,
		})
		if err != nil {
			return err
		}
		fmt.Println(formatConversation(*created))
		return nil
	},
}

var addMembersCmd = &cobra.Command{
	Use:   "add-members <conversation-id> <member-id>...",
	Short: "Add members to a conversation",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		convID, err := parseID(args[0])
		if err != nil {
			return err
		}
		members := make([]int64, 0, len(args)-1)
		for _, raw := range args[1:] {
			id, err := parseID(raw)
			if err != nil {
				return err
			}
			members = append(members, id)
		}
		updated, err := a.pipeline.AddMembers(cmd.Context(), convID, members)
		if err != nil {
			return err
		}
		fmt.Println(formatConversation(*updated))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <conversation-id> <message-id>...",
	Short: "Delete own messages from a conversation",
	Long: `Opens the conversation, enters selection mode, selects the given
messages and confirms the batch delete. Messages authored by other users
are never selectable and are silently skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		convID, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.engine.Activate(cmd.Context(), convID); err != nil {
			return err
		}

		a.selection.Enter()
		for _, raw := range args[1:] {
			id, err := parseID(raw)
			if err != nil {
				return err
			}
			a.selection.Toggle(id)
		}
		selected := a.selection.Count()
		if err := a.selection.ConfirmDelete(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("deleted %d message(s)\n", selected)
		return nil
	},
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
