package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "chatctl drives the team chat sync core from the command line",
	Long: `chatctl is a thin presenter over the conversation & message
synchronization core. It maintains no state of its own: every command
loads the directory, activates a conversation where needed, and runs the
requested operation through the mutation pipeline.

Examples:
  chatctl conversations --filter backend
  chatctl open 12
  chatctl send 12 "deploy is done"
  chatctl create --project 3 --members 7,9,15
  chatctl add-members 12 21 22
  chatctl delete 12 101 102 103`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(conversationsCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(addMembersCmd)
	rootCmd.AddCommand(deleteCmd)
}
