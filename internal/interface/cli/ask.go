package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hondachat/internal/core/config"
	"hondachat/internal/core/session"
)

var askChat string

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a message and print the reply",
	Long: `Send a single message to the backend and print the assistant's reply.

The turn is appended to the active chat (a new chat is created if none
exists) and saved locally, so a later 'hondachat' session picks up where
you left off.

Examples:
  hondachat ask "What projects have you worked on?"
  hondachat ask --chat 0ccfddc4 "Tell me more about the second one"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askChat, "chat", "", "Chat to continue (id prefix or title, default: active chat)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	content := strings.TrimSpace(args[0])
	if content == "" {
		return fmt.Errorf("message is empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	if askChat != "" {
		chat, err := st.Find(askChat)
		if err != nil {
			return err
		}
		st.SetCurrentChat(chat.ID)
	}

	client := newBackendClient(cfg, database)
	reply, err := session.Exchange(context.Background(), st, client, content)
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	fmt.Println(reply.Content)
	if len(reply.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range reply.Sources {
			fmt.Printf("  - %s\n", src.Title)
		}
	}
	return nil
}
